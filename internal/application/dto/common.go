package dto

// ErrorResponse cuerpo de error HTTP. Kind es la categoría de recuperación
// (selection, capacity, consistency, network) y Notifications los avisos generados.
type ErrorResponse struct {
	Code          string                 `json:"code"`
	Message       string                 `json:"message"`
	Kind          string                 `json:"kind,omitempty"`
	Notifications []NotificationResponse `json:"notifications,omitempty"`
}

// NotificationResponse aviso transitorio para la UI.
type NotificationResponse struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
