package domain

import "strings"

// IdentifierKind tells whether an identifier is a mint address or a ticker symbol.
type IdentifierKind string

const (
	IdentifierAddress IdentifierKind = "ADDRESS"
	IdentifierSymbol  IdentifierKind = "SYMBOL"
)

// TokenIdentifier is the token reference extracted from an inbound message.
type TokenIdentifier struct {
	Value string         // raw match, e.g. "So111..." or "$BONK"
	Kind  IdentifierKind // ADDRESS | SYMBOL
}

// NewAddressIdentifier wraps a base58 mint address.
func NewAddressIdentifier(address string) TokenIdentifier {
	return TokenIdentifier{Value: address, Kind: IdentifierAddress}
}

// NewSymbolIdentifier wraps a $-prefixed ticker.
func NewSymbolIdentifier(symbol string) TokenIdentifier {
	if !strings.HasPrefix(symbol, "$") {
		symbol = "$" + symbol
	}
	return TokenIdentifier{Value: symbol, Kind: IdentifierSymbol}
}

// Symbol returns the ticker without the leading "$".
func (id TokenIdentifier) Symbol() string {
	return strings.TrimPrefix(id.Value, "$")
}

// IsSymbol reports whether the identifier needs symbol resolution.
func (id TokenIdentifier) IsSymbol() bool {
	return id.Kind == IdentifierSymbol
}

// String returns the raw identifier.
func (id TokenIdentifier) String() string {
	return id.Value
}
