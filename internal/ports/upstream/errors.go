package upstream

import "errors"

// Taxonomía de errores de upstream. Los adapters envuelven con %w y
// el resto del sistema decide con errors.Is.
var (
	// ErrBudgetExceeded: breaker abierto, el presupuesto diario se agotó.
	// Quien lo recibe corta el trabajo del ciclo; no se reintenta en la corrida.
	ErrBudgetExceeded = errors.New("upstream: daily call budget exceeded")

	// ErrAuthFailure: falló el intercambio de credenciales. Fatal para la corrida.
	ErrAuthFailure = errors.New("upstream: credential exchange failed")

	// ErrUnauthorized: el token fue rechazado (401); se invalida y se reintenta una vez.
	ErrUnauthorized = errors.New("upstream: unauthorized")

	// ErrTransport: red o 5xx. Lo reintenta el governor con backoff.
	ErrTransport = errors.New("upstream: transport error")

	// ErrNotFound: 404 en un detalle. Señal de negocio (baja confirmada).
	ErrNotFound = errors.New("upstream: not found")

	// ErrGeocodeNotFound: el geocoder no devolvió resultados.
	ErrGeocodeNotFound = errors.New("upstream: geocode not found")
)
