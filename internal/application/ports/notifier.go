package ports

// Level severidad de una notificación para el usuario del kiosco.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification aviso transitorio ("toast") emitido por una operación.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier puerto de salida para avisos al usuario. Las implementaciones deben ser
// seguras para uso concurrente.
type Notifier interface {
	Notify(n Notification)
}

// Success construye un aviso de éxito.
func Success(title, description string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Description: description}
}

// Failure construye un aviso de error a partir de un error de dominio.
func Failure(err error) Notification {
	return Notification{Level: LevelError, Title: err.Error()}
}

// Warning construye un aviso no bloqueante.
func Warning(title, description string) Notification {
	return Notification{Level: LevelWarning, Title: title, Description: description}
}
