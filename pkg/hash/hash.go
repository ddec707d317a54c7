package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PlainPrefix tags digests written while no hashing primitive is available.
const PlainPrefix = "PLAIN:"

var ErrUnavailable = errors.New("password hashing unavailable")

type Kind int

const (
	KindStrong Kind = iota
	KindUnavailable
)

func (k Kind) String() string {
	if k == KindStrong {
		return "bcrypt"
	}
	return "unavailable"
}

// Hasher is the password hashing port. The variant is decided once when the
// process starts; callers branch on Kind instead of probing per call.
type Hasher interface {
	Kind() Kind
	Hash(password string) (string, error)
	Compare(digest, password string) bool
}

type Bcrypt struct {
	Cost int
}

func NewBcrypt(cost int) Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Bcrypt{Cost: cost}
}

func (Bcrypt) Kind() Kind { return KindStrong }

func (b Bcrypt) Hash(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (Bcrypt) Compare(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

type Unavailable struct{}

func (Unavailable) Kind() Kind { return KindUnavailable }

func (Unavailable) Hash(string) (string, error) { return "", ErrUnavailable }

func (Unavailable) Compare(string, string) bool { return false }

// New returns the hasher for a PASSWORD_HASHING setting.
func New(mode string, cost int) Hasher {
	if mode == "disabled" {
		return Unavailable{}
	}
	return NewBcrypt(cost)
}
