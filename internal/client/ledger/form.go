package ledger

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/go-playground/validator/v10"
)

// Banks are the withdrawal destinations offered to the user.
var Banks = []string{
	"Access Bank",
	"First Bank",
	"GTBank",
	"Kuda Bank",
	"OPay",
	"United Bank for Africa (UBA)",
	"Zenith Bank",
}

// BridgeAmount is credited by every completed bridge.
const BridgeAmount = "100.00"

var (
	ErrInvalidForm     = errors.New("invalid form")
	ErrUnsupportedKind = errors.New("unsupported transaction kind")
)

// Fields carries the user input for a new record. Only the fields relevant
// to the kind are read.
type Fields struct {
	Recipient     string
	Amount        string
	Bank          string
	AccountNumber string
	Network       string
	Symbol        string
}

type sendForm struct {
	Recipient string `form:"recipient" validate:"required"`
	Amount    string `form:"amount" validate:"required,amount"`
}

type withdrawForm struct {
	Bank          string `form:"bank" validate:"required,bank"`
	AccountNumber string `form:"account number" validate:"required,len=10,number"`
	Amount        string `form:"amount" validate:"required,amount"`
}

type bridgeForm struct {
	Network string `form:"network" validate:"required"`
	Symbol  string `form:"symbol" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && n > 0 && !math.IsInf(n, 0)
	})
	_ = v.RegisterValidation("bank", func(fl validator.FieldLevel) bool {
		return isBank(fl.Field().String())
	})
	return v
}

func isBank(name string) bool {
	for _, b := range Banks {
		if b == name {
			return true
		}
	}
	return false
}

// build validates f for kind and returns the record to insert.
func build(v *validator.Validate, userID string, kind models.Kind, f Fields) (*models.Transaction, error) {
	t := &models.Transaction{UserID: userID, Kind: kind, Status: models.StatusSending}

	var form any
	switch kind {
	case models.KindOut:
		form = sendForm{Recipient: strings.TrimSpace(f.Recipient), Amount: f.Amount}
		t.Counterparty = strings.TrimSpace(f.Recipient)
		t.Amount, t.Memo = common.EncryptedPlaceholder, common.EncryptedPlaceholder
	case models.KindWithdraw:
		form = withdrawForm{Bank: f.Bank, AccountNumber: f.AccountNumber, Amount: f.Amount}
		t.Counterparty = f.Bank
		t.Amount, t.Memo = common.EncryptedPlaceholder, common.EncryptedPlaceholder
	case models.KindBridge:
		form = bridgeForm{Network: f.Network, Symbol: f.Symbol}
		t.Counterparty = f.Network
		t.Amount = BridgeAmount
		t.Memo = fmt.Sprintf("USDT (%s) -> cUSDT", f.Symbol)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	if err := v.Struct(form); err != nil {
		return nil, describe(err)
	}
	return t, nil
}

func describe(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	fe := ve[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "amount":
		msg = fe.Field() + " must be a positive number"
	case "len", "number":
		msg = fe.Field() + " must be 10 digits"
	case "bank":
		msg = "unknown bank " + strconv.Quote(fmt.Sprint(fe.Value()))
	default:
		msg = fe.Field() + " is invalid"
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, msg)
}
