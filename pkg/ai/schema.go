package ai

import (
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

var schemaCache sync.Map

// SchemaFor はサンプル値の型から構造化出力用の JSON スキーマを生成します。
// 同じ型のスキーマはキャッシュされます。
func SchemaFor(v any) *jsonschema.Schema {
	key := reflect.TypeOf(v)
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema)
	}
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(v)
	schemaCache.Store(key, s)
	return s
}
