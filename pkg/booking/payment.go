package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// Wallet is the optional wallet capability used by the wallet payment path.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]string, error)
}

// PaymentChoice selects one of the three mutually exclusive payment paths.
type PaymentChoice string

const (
	PaymentChoiceWallet     PaymentChoice = "wallet"
	PaymentChoicePayLater   PaymentChoice = "pay_later"
	PaymentChoicePayAtVenue PaymentChoice = "pay_at_venue"
)

// ParsePaymentChoice validates a client-supplied payment choice.
func ParsePaymentChoice(raw string) (PaymentChoice, error) {
	choice := PaymentChoice(strings.TrimSpace(raw))
	switch choice {
	case PaymentChoiceWallet, PaymentChoicePayLater, PaymentChoicePayAtVenue:
		return choice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentChoice, raw)
	}
}

// PaymentOutcome is the single result delivered by a successful dialog.
type PaymentOutcome struct {
	Method        PaymentMethod
	TransactionID string
}

// DialogState is the payment dialog lifecycle.
type DialogState string

const (
	DialogStateClosed     DialogState = "closed"
	DialogStateOpen       DialogState = "open"
	DialogStateProcessing DialogState = "processing"
	DialogStateSucceeded  DialogState = "succeeded"
	DialogStateDismissed  DialogState = "dismissed"
)

// DialogOption configures a PaymentDialog.
type DialogOption func(*PaymentDialog)

// WithDialogTransactionIDGenerator overrides the fabricated transaction id source.
func WithDialogTransactionIDGenerator(generator func() (string, error)) DialogOption {
	return func(dialog *PaymentDialog) {
		if generator != nil {
			dialog.transactionIDs = generator
		}
	}
}

// PaymentDialog is one scoped payment interaction: open, await a single outcome, close.
type PaymentDialog struct {
	mu             sync.Mutex
	state          DialogState
	wallet         Wallet
	transactionIDs func() (string, error)
	outcome        *PaymentOutcome
}

// OpenPaymentDialog returns an open dialog. A nil wallet means the wallet path is unavailable.
func OpenPaymentDialog(wallet Wallet, options ...DialogOption) *PaymentDialog {
	dialog := &PaymentDialog{
		state:          DialogStateOpen,
		wallet:         wallet,
		transactionIDs: NewTransactionID,
	}
	for _, option := range options {
		if option != nil {
			option(dialog)
		}
	}
	return dialog
}

// State returns the current lifecycle state.
func (dialog *PaymentDialog) State() DialogState {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	return dialog.state
}

// Outcome returns the delivered outcome once the dialog has succeeded.
func (dialog *PaymentDialog) Outcome() (PaymentOutcome, bool) {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	if dialog.outcome == nil {
		return PaymentOutcome{}, false
	}
	return *dialog.outcome, true
}

// Dismiss closes an open dialog without producing an outcome.
func (dialog *PaymentDialog) Dismiss() {
	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	if dialog.state == DialogStateOpen {
		dialog.state = DialogStateDismissed
	}
}

// Submit runs the chosen payment path and returns its outcome. Failures leave the dialog open for another attempt.
func (dialog *PaymentDialog) Submit(ctx context.Context, choice PaymentChoice) (PaymentOutcome, error) {
	dialog.mu.Lock()
	switch dialog.state {
	case DialogStateProcessing:
		dialog.mu.Unlock()
		return PaymentOutcome{}, ErrPaymentInProgress
	case DialogStateOpen:
	default:
		dialog.mu.Unlock()
		return PaymentOutcome{}, ErrDialogClosed
	}

	switch choice {
	case PaymentChoicePayLater:
		outcome := dialog.succeedLocked(PaymentOutcome{Method: PaymentMethodDeferred})
		dialog.mu.Unlock()
		return outcome, nil
	case PaymentChoicePayAtVenue:
		outcome := dialog.succeedLocked(PaymentOutcome{Method: PaymentMethodAtVenue})
		dialog.mu.Unlock()
		return outcome, nil
	case PaymentChoiceWallet:
	default:
		dialog.mu.Unlock()
		return PaymentOutcome{}, fmt.Errorf("%w: %q", ErrInvalidPaymentChoice, choice)
	}

	if dialog.wallet == nil {
		dialog.mu.Unlock()
		return PaymentOutcome{}, ErrWalletUnavailable
	}
	dialog.state = DialogStateProcessing
	wallet := dialog.wallet
	dialog.mu.Unlock()

	transactionID, err := requestWalletPayment(ctx, wallet, dialog.transactionIDs)

	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	if err != nil {
		dialog.state = DialogStateOpen
		return PaymentOutcome{}, err
	}
	return dialog.succeedLocked(PaymentOutcome{Method: PaymentMethodWallet, TransactionID: transactionID}), nil
}

func (dialog *PaymentDialog) succeedLocked(outcome PaymentOutcome) PaymentOutcome {
	dialog.state = DialogStateSucceeded
	dialog.outcome = &outcome
	return outcome
}

func requestWalletPayment(ctx context.Context, wallet Wallet, transactionIDs func() (string, error)) (string, error) {
	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWalletRequestFailed, err)
	}
	if len(accounts) == 0 {
		return "", fmt.Errorf("%w: no accounts", ErrWalletRequestFailed)
	}
	transactionID, err := transactionIDs()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWalletRequestFailed, err)
	}
	if strings.TrimSpace(transactionID) == "" {
		return "", fmt.Errorf("%w: empty transaction id", ErrWalletRequestFailed)
	}
	return transactionID, nil
}

// NewTransactionID fabricates a client-side transaction hash. Nothing is settled on chain.
func NewTransactionID() (string, error) {
	buffer := make([]byte, transactionIDBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return transactionIDPrefix + hex.EncodeToString(buffer), nil
}
