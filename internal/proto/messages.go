// Package proto defines the wire contract between the Veil client and
// backend: the veil.v1.VeilService gRPC service and the documents it
// exchanges. Every request and response travels as a google.protobuf.Struct,
// the same schemaless row shape the hosted table API used; the typed structs
// below are converted with Encode and Decode at the edges.
package proto

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Credentials is the request of SignUp and SignIn.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public part of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session as issued by SignIn, SignUp and
// RefreshToken. ExpiresAt is the access-token expiry in Unix seconds.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// SignUpResponse carries either a session or, when the backend requires
// email confirmation, ConfirmationPending with no session.
type SignUpResponse struct {
	User                User     `json:"user"`
	Session             *Session `json:"session,omitempty"`
	ConfirmationPending bool     `json:"confirmation_pending"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TransactionRow mirrors one row of the transactions table. Ids travel as
// strings; a Struct number is a float64.
type TransactionRow struct {
	ID        int64     `json:"id,string,omitempty"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Recipient string    `json:"recipient,omitempty"`
	FromUser  string    `json:"from_user,omitempty"`
	Memo      string    `json:"memo"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ListTransactionsRequest struct {
	UserID string `json:"user_id"`
}

type ListTransactionsResponse struct {
	Rows []TransactionRow `json:"rows"`
}

type UpdateStatusRequest struct {
	ID     int64  `json:"id,string"`
	Status string `json:"status"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// Empty is used where a method takes or returns nothing.
type Empty struct{}

// Encode converts v into a Struct document via its JSON form.
// v must marshal to a JSON object.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return s, nil
}

// Decode fills v from a Struct document. A nil document decodes as {}.
func Decode(s *structpb.Struct, v any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
