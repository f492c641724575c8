package logger

import "context"

// Context keys registered here are copied into every *FCtx log entry when
// present on the context. The admincore keys are pre-registered; services
// embedding the package may add their own.
var contextKeyRegistry = map[interface{}]string{
	RequestIDKey: "request_id",
	UsuarioIDKey: "usuario_id",
	FilialIDKey:  "filial_id",
}

func RegisterContextKey(ctxKey interface{}, logField string) {
	contextKeyRegistry[ctxKey] = logField
}

func UnregisterContextKey(ctxKey interface{}) {
	delete(contextKeyRegistry, ctxKey)
}

func withContext(ctx context.Context) []any {
	fields := make([]any, 0, len(contextKeyRegistry)*2)
	for key, fieldName := range contextKeyRegistry {
		if val := ctx.Value(key); val != nil {
			fields = append(fields, fieldName, val)
		}
	}
	return fields
}
