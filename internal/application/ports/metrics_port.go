package ports

// OperationObserver registra el resultado de cada operación de sesión (Prometheus o no-op).
type OperationObserver interface {
	ObserveOperation(op string, err error)
}

// NopObserver no registra nada.
type NopObserver struct{}

func (NopObserver) ObserveOperation(string, error) {}
