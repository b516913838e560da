package models

// ErrorKind classifies an application error so the transport layer can map it
// to a response without handlers carrying status codes.
type ErrorKind string

const (
	ErrKindValidation    ErrorKind = "validation"
	ErrKindSignature     ErrorKind = "signature_verification"
	ErrKindDataIntegrity ErrorKind = "data_integrity"
	ErrKindGateway       ErrorKind = "gateway"
	ErrKindPersistence   ErrorKind = "persistence"
)

// AppError carries a domain error kind and a client-safe message
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a missing or malformed request field
func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: message}
}

// NewSignatureError reports a failed webhook signature verification
func NewSignatureError(err error) *AppError {
	return &AppError{Kind: ErrKindSignature, Message: "webhook signature verification failed", Err: err}
}

// NewDataIntegrityError reports a webhook payload missing an expected metadata key
func NewDataIntegrityError(message string) *AppError {
	return &AppError{Kind: ErrKindDataIntegrity, Message: message}
}

// NewGatewayError reports an upstream payment gateway failure
func NewGatewayError(message string, err error) *AppError {
	return &AppError{Kind: ErrKindGateway, Message: message, Err: err}
}

// NewPersistenceError reports a document store failure
func NewPersistenceError(err error) *AppError {
	return &AppError{Kind: ErrKindPersistence, Message: "failed to persist document", Err: err}
}
