package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
)

var transactionIDPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func TestWalletPathDeliversSingleOutcome(test *testing.T) {
	test.Parallel()
	wallet := &stubWallet{accounts: []string{"0xabc"}}
	dialog := OpenPaymentDialog(wallet)

	outcome, err := dialog.Submit(context.Background(), PaymentChoiceWallet)
	if err != nil {
		test.Fatalf("submit: %v", err)
	}
	if outcome.Method != PaymentMethodWallet {
		test.Fatalf("expected metamask method, got %q", outcome.Method)
	}
	if !transactionIDPattern.MatchString(outcome.TransactionID) {
		test.Fatalf("unexpected transaction id %q", outcome.TransactionID)
	}
	if dialog.State() != DialogStateSucceeded {
		test.Fatalf("expected succeeded state, got %s", dialog.State())
	}
	stored, ok := dialog.Outcome()
	if !ok || stored != outcome {
		test.Fatalf("expected stored outcome %+v, got %+v", outcome, stored)
	}
	if _, err := dialog.Submit(context.Background(), PaymentChoiceWallet); !errors.Is(err, ErrDialogClosed) {
		test.Fatalf("expected closed dialog on second submit, got %v", err)
	}
	if wallet.callCount() != 1 {
		test.Fatalf("expected one wallet request, got %d", wallet.callCount())
	}
}

func TestDeferredAndVenuePathsSucceedSynchronously(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name   string
		choice PaymentChoice
		method PaymentMethod
	}{
		{name: "pay later", choice: PaymentChoicePayLater, method: PaymentMethodDeferred},
		{name: "pay at venue", choice: PaymentChoicePayAtVenue, method: PaymentMethodAtVenue},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			wallet := &stubWallet{accounts: []string{"0xabc"}}
			dialog := OpenPaymentDialog(wallet)
			outcome, err := dialog.Submit(context.Background(), testCase.choice)
			if err != nil {
				test.Fatalf("submit: %v", err)
			}
			if outcome.Method != testCase.method || outcome.TransactionID != "" {
				test.Fatalf("unexpected outcome %+v", outcome)
			}
			if dialog.State() != DialogStateSucceeded {
				test.Fatalf("expected succeeded state, got %s", dialog.State())
			}
			if wallet.callCount() != 0 {
				test.Fatalf("expected no wallet request")
			}
			if _, err := dialog.Submit(context.Background(), testCase.choice); !errors.Is(err, ErrDialogClosed) {
				test.Fatalf("expected closed dialog, got %v", err)
			}
		})
	}
}

func TestWalletPathWithoutCapability(test *testing.T) {
	test.Parallel()
	dialog := OpenPaymentDialog(nil)
	_, err := dialog.Submit(context.Background(), PaymentChoiceWallet)
	requireErrorIs(test, err, ErrWalletUnavailable)
	if dialog.State() != DialogStateOpen {
		test.Fatalf("expected dialog to stay open, got %s", dialog.State())
	}
	outcome, err := dialog.Submit(context.Background(), PaymentChoicePayLater)
	if err != nil {
		test.Fatalf("fallback submit: %v", err)
	}
	if outcome.Method != PaymentMethodDeferred {
		test.Fatalf("expected pending method, got %q", outcome.Method)
	}
}

func TestWalletPathRejectedRequestStaysOpen(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name   string
		wallet *stubWallet
	}{
		{name: "rejected", wallet: &stubWallet{err: errors.New("user rejected the request")}},
		{name: "no accounts", wallet: &stubWallet{accounts: []string{}}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			dialog := OpenPaymentDialog(testCase.wallet)
			_, err := dialog.Submit(context.Background(), PaymentChoiceWallet)
			requireErrorIs(test, err, ErrWalletRequestFailed)
			if dialog.State() != DialogStateOpen {
				test.Fatalf("expected open state, got %s", dialog.State())
			}
			if _, ok := dialog.Outcome(); ok {
				test.Fatalf("expected no outcome")
			}
		})
	}
}

func TestWalletPathBlocksReentrantSubmit(test *testing.T) {
	test.Parallel()
	wallet := &stubWallet{
		accounts: []string{"0xabc"},
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	dialog := OpenPaymentDialog(wallet)

	type submitResult struct {
		outcome PaymentOutcome
		err     error
	}
	results := make(chan submitResult, 1)
	go func() {
		outcome, err := dialog.Submit(context.Background(), PaymentChoiceWallet)
		results <- submitResult{outcome: outcome, err: err}
	}()

	select {
	case <-wallet.entered:
	case <-time.After(2 * time.Second):
		test.Fatalf("wallet request never started")
	}
	if dialog.State() != DialogStateProcessing {
		test.Fatalf("expected processing state, got %s", dialog.State())
	}
	if _, err := dialog.Submit(context.Background(), PaymentChoicePayLater); !errors.Is(err, ErrPaymentInProgress) {
		test.Fatalf("expected payment in progress, got %v", err)
	}
	dialog.Dismiss()
	if dialog.State() != DialogStateProcessing {
		test.Fatalf("dismiss must not interrupt processing, got %s", dialog.State())
	}
	close(wallet.release)

	result := <-results
	if result.err != nil {
		test.Fatalf("submit: %v", result.err)
	}
	if result.outcome.Method != PaymentMethodWallet {
		test.Fatalf("unexpected outcome %+v", result.outcome)
	}
}

func TestDismissClosesWithoutOutcome(test *testing.T) {
	test.Parallel()
	dialog := OpenPaymentDialog(nil)
	dialog.Dismiss()
	if dialog.State() != DialogStateDismissed {
		test.Fatalf("expected dismissed, got %s", dialog.State())
	}
	if _, ok := dialog.Outcome(); ok {
		test.Fatalf("expected no outcome")
	}
	if _, err := dialog.Submit(context.Background(), PaymentChoicePayAtVenue); !errors.Is(err, ErrDialogClosed) {
		test.Fatalf("expected closed dialog, got %v", err)
	}
}

func TestSubmitRejectsUnknownChoice(test *testing.T) {
	test.Parallel()
	dialog := OpenPaymentDialog(nil)
	_, err := dialog.Submit(context.Background(), PaymentChoice("upi"))
	requireErrorIs(test, err, ErrInvalidPaymentChoice)
	if dialog.State() != DialogStateOpen {
		test.Fatalf("expected open state, got %s", dialog.State())
	}
}

func TestTransactionIDGeneratorOverride(test *testing.T) {
	test.Parallel()
	dialog := OpenPaymentDialog(&stubWallet{accounts: []string{"0xabc"}}, WithDialogTransactionIDGenerator(fixedTransactionID))
	outcome, err := dialog.Submit(context.Background(), PaymentChoiceWallet)
	if err != nil {
		test.Fatalf("submit: %v", err)
	}
	expected, _ := fixedTransactionID()
	if outcome.TransactionID != expected {
		test.Fatalf("expected %q, got %q", expected, outcome.TransactionID)
	}

	failing := OpenPaymentDialog(&stubWallet{accounts: []string{"0xabc"}}, WithDialogTransactionIDGenerator(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))
	_, err = failing.Submit(context.Background(), PaymentChoiceWallet)
	requireErrorIs(test, err, ErrWalletRequestFailed)
	if failing.State() != DialogStateOpen {
		test.Fatalf("expected open state, got %s", failing.State())
	}
}

func TestParsePaymentChoice(test *testing.T) {
	test.Parallel()
	for _, raw := range []string{"wallet", " pay_later ", "pay_at_venue"} {
		if _, err := ParsePaymentChoice(raw); err != nil {
			test.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParsePaymentChoice("card"); !errors.Is(err, ErrInvalidPaymentChoice) {
		test.Fatalf("expected invalid choice, got %v", err)
	}
}
