package respond

import (
	"encoding/json"
	"net/http"
)

// writeJSON vivía duplicado en cada módulo; con pets + matching usando el mismo
// sobre {success, ...} se extrajo acá.

// JSON escribe {success:true, ...payload}.
func JSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	write(w, status, body)
}

// Error escribe {success:false, error:msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
