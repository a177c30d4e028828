package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrNotDraft         = errors.New("solo se pueden eliminar órdenes en borrador")
	ErrEmptySelection   = errors.New("no hay órdenes seleccionadas")
	ErrInvalidBRN       = errors.New("número de registro empresarial inválido")
	ErrInvalidTemplate  = errors.New("configuración de plantilla inválida")
	ErrUnsupportedDraft = errors.New("versión de borrador no soportada")
	ErrMailDisabled     = errors.New("envío de correo no configurado")
	ErrStorageDisabled  = errors.New("almacenamiento de documentos no configurado")
	ErrMailDelivery     = errors.New("no se pudo entregar el correo")
)
