package service

import (
	"sync"

	"github.com/google/uuid"
)

// Token is the interned identity of a capability name.
type Token struct {
	name string
	id   uuid.UUID
}

// Name returns the capability name.
func (t Token) Name() string { return t.name }

// String implements fmt.Stringer.
func (t Token) String() string { return t.name }

// Key is anything resolving to a Token, typically a Tag.
type Key interface {
	Token() Token
}

// Token lets a bare Token be used as a Key.
func (t Token) Token() Token { return t }

// Tag is a typed handle on a capability.
type Tag[T any] struct {
	token Token
}

// Token returns the interned identity of the tag.
func (t Tag[T]) Token() Token { return t.token }

// Name returns the capability name.
func (t Tag[T]) Name() string { return t.token.name }

// Interner assigns one Token per name. Tokens are kept for the life of the
// Interner and never evicted.
type Interner struct {
	mu     sync.Mutex
	tokens map[string]Token
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{tokens: make(map[string]Token)}
}

// Token returns the token for name, minting it on first use.
func (in *Interner) Token(name string) Token {
	in.mu.Lock()
	defer in.mu.Unlock()
	if tok, ok := in.tokens[name]; ok {
		return tok
	}
	tok := Token{name: name, id: uuid.New()}
	in.tokens[name] = tok
	return tok
}

// Len returns the number of interned names.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.tokens)
}

// Default is the process-wide interner used by NewTag.
var Default = NewInterner()

// NewTag returns the tag named name in the Default interner.
func NewTag[T any](name string) Tag[T] {
	return TagIn[T](Default, name)
}

// TagIn returns the tag named name in interner in.
func TagIn[T any](in *Interner, name string) Tag[T] {
	return Tag[T]{token: in.Token(name)}
}
