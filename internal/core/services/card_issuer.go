package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

// ibanPrefix marks IBANs issued by this bank. With 17 random digits the full
// IBAN is 24 characters.
const ibanPrefix = "IBANEDM"

// cardIssueRetryCap bounds the collision-avoidance loop. 1000 retries over a
// 16-digit space will in practice never be reached; the cap exists so issuance
// cannot block forever against a misbehaving store.
const cardIssueRetryCap = 1000

// cardIssuer generates payment cards whose number and IBAN are unique across
// all persisted accounts.
type cardIssuer struct {
	accounts portsrepo.AccountReader
}

func newCardIssuer(accounts portsrepo.AccountReader) *cardIssuer {
	return &cardIssuer{accounts: accounts}
}

// Issue generates a fresh card, regenerating on collision with an existing
// card number or IBAN, up to cardIssueRetryCap attempts.
func (ci *cardIssuer) Issue(ctx context.Context) (domain.Card, error) {
	for attempt := 0; attempt < cardIssueRetryCap; attempt++ {
		card := randomCard(time.Now())

		numberTaken, err := ci.accounts.CardNumberExists(ctx, card.Number)
		if err != nil {
			return domain.Card{}, fmt.Errorf("checking card number uniqueness: %w", err)
		}
		ibanTaken, err := ci.accounts.IBANExists(ctx, card.IBAN)
		if err != nil {
			return domain.Card{}, fmt.Errorf("checking IBAN uniqueness: %w", err)
		}
		if !numberTaken && !ibanTaken {
			return card, nil
		}
	}
	return domain.Card{}, fmt.Errorf("%w: gave up after %d attempts", apperrors.ErrCardGenerationExhausted, cardIssueRetryCap)
}

// randomCard draws a card with a 16-digit number, a 3-digit CVV, an MM/YY
// expiry between one and twenty years out, and a prefixed 24-character IBAN.
func randomCard(now time.Time) domain.Card {
	number := rand.Int64N(9_000_000_000_000_000) + 1_000_000_000_000_000
	cvv := rand.IntN(900) + 100

	year := now.Year() + 1 + rand.IntN(19)
	month := 1 + rand.IntN(12)

	return domain.Card{
		Number:     fmt.Sprintf("%016d", number),
		CVV:        fmt.Sprintf("%03d", cvv),
		ExpiryDate: fmt.Sprintf("%02d/%02d", month, year%100),
		IBAN:       fmt.Sprintf("%s%017d", ibanPrefix, rand.Uint64N(100_000_000_000_000_000)),
	}
}
