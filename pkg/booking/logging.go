package booking

import "context"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing booking operation.
type OperationLog struct {
	Operation     string
	UserID        UserID
	ListingID     ListingID
	BookingID     BookingID
	Amount        Amount
	PaymentMethod PaymentMethod
	Status        string
	Error         error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithWallet wires the wallet capability used by payment dialogs. A nil wallet means the capability is absent.
func WithWallet(wallet Wallet) ServiceOption {
	return func(service *Service) {
		service.wallet = wallet
	}
}

// WithTransactionIDGenerator overrides how wallet payments fabricate transaction ids.
func WithTransactionIDGenerator(generator func() (string, error)) ServiceOption {
	return func(service *Service) {
		service.transactionIDs = generator
	}
}
