package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Keys owned by the item record itself; they never come from a client payload.
const (
	FieldID         = "id"
	FieldMongoID    = "_id"
	FieldBorrowed   = "borrowed"
	FieldBorrowerID = "borrowerId"
	FieldLoanDate   = "loanDate"
	FieldReturnDate = "returnDate"
)

var reservedFields = map[string]struct{}{
	FieldID:         {},
	FieldMongoID:    {},
	FieldBorrowed:   {},
	FieldBorrowerID: {},
	FieldLoanDate:   {},
	FieldReturnDate: {},
}

// ErrInvalidFieldKey is returned for extension keys a document store cannot hold.
var ErrInvalidFieldKey = errors.New("invalid field name")

// Item is a lendable record: fixed borrow-state fields plus free-form extension fields.
// On the wire the extension fields sit next to the fixed ones at the top level.
type Item struct {
	ID         string
	Borrowed   bool
	BorrowerID *string
	LoanDate   *time.Time
	ReturnDate *time.Time
	Fields     map[string]any
}

// IsReservedField reports whether key belongs to the fixed part of an item.
func IsReservedField(key string) bool {
	_, ok := reservedFields[key]
	return ok
}

// ExtensionFields drops reserved keys from a client payload and validates the rest.
func ExtensionFields(payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if IsReservedField(k) {
			continue
		}
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFieldKey, k)
		}
		out[k] = v
	}
	return out, nil
}

// NewItem builds an available item from a creation payload.
func NewItem(payload map[string]any) (Item, error) {
	fields, err := ExtensionFields(payload)
	if err != nil {
		return Item{}, err
	}
	return Item{Borrowed: false, BorrowerID: nil, Fields: fields}, nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(it.Fields)+5)
	for k, v := range it.Fields {
		out[k] = v
	}
	out[FieldID] = it.ID
	out[FieldBorrowed] = it.Borrowed
	out[FieldBorrowerID] = it.BorrowerID
	out[FieldLoanDate] = it.LoanDate
	out[FieldReturnDate] = it.ReturnDate
	return json.Marshal(out)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var fixed struct {
		ID         string     `json:"id"`
		Borrowed   bool       `json:"borrowed"`
		BorrowerID *string    `json:"borrowerId"`
		LoanDate   *time.Time `json:"loanDate"`
		ReturnDate *time.Time `json:"returnDate"`
	}
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if IsReservedField(k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = val
	}

	*it = Item{
		ID:         fixed.ID,
		Borrowed:   fixed.Borrowed,
		BorrowerID: fixed.BorrowerID,
		LoanDate:   fixed.LoanDate,
		ReturnDate: fixed.ReturnDate,
		Fields:     fields,
	}
	return nil
}
