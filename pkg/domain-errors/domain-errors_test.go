package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeSessionExpired, Message: "session expired, log in again"}
		s.Equal("session expired, log in again", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeSessionExpired}
		s.Equal("session_expired", err.Error())
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	inner := New(CodeNoRefreshToken, "nothing to refresh")
	wrapped := Wrap(CodeInternal, "refresh failed", inner)

	s.True(HasCode(wrapped, CodeNoRefreshToken))
	s.False(HasCode(wrapped, CodeInternal))
	s.True(errors.Is(wrapped, inner))
}

func (s *DomainErrorsSuite) TestWrapPlainError() {
	inner := errors.New("connection reset")
	wrapped := Wrap(CodeSessionExpired, "refresh call failed", inner)

	s.True(HasCode(wrapped, CodeSessionExpired))
	s.True(errors.Is(wrapped, inner))
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	a := New(CodeInvalidCredentials, "wrong password")
	b := New(CodeInvalidCredentials, "unknown user")

	s.True(errors.Is(a, b))
	s.False(errors.Is(a, New(CodeForbidden, "")))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeMalformedToken, CodeOf(New(CodeMalformedToken, "bad segment")))
	s.Equal(CodeInternal, CodeOf(errors.New("plain")))
}
