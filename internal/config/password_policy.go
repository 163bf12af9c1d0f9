// Videotheca - Self-Hosted Streaming Catalog and Watchlist Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videotheca

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy defines requirements for account passwords.
// The default follows NIST SP 800-63B: length first, light composition
// rules, and a blocklist of common passwords.
type PasswordPolicy struct {
	// MinLength is the minimum password length.
	MinLength int `koanf:"min_length"`

	// RequireUppercase requires at least one uppercase letter.
	RequireUppercase bool `koanf:"require_uppercase"`

	// RequireLowercase requires at least one lowercase letter.
	RequireLowercase bool `koanf:"require_lowercase"`

	// RequireDigit requires at least one digit.
	RequireDigit bool `koanf:"require_digit"`

	// RequireSpecial requires at least one special character.
	RequireSpecial bool `koanf:"require_special"`

	// ForbidCommonPasswords blocks well-known breached passwords.
	ForbidCommonPasswords bool `koanf:"forbid_common_passwords"`
}

// DefaultPasswordPolicy returns the policy applied to new accounts:
// at least 8 characters with a lowercase letter and a digit, common
// passwords rejected.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:             8,
		RequireUppercase:      false,
		RequireLowercase:      true,
		RequireDigit:          true,
		RequireSpecial:        false,
		ForbidCommonPasswords: true,
	}
}

// charClasses holds the results of character class analysis.
type charClasses struct {
	hasUpper   bool
	hasLower   bool
	hasDigit   bool
	hasSpecial bool
}

// analyzeCharClasses examines a password and reports which character
// classes are present.
func analyzeCharClasses(password string) charClasses {
	var cc charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			cc.hasUpper = true
		case unicode.IsLower(r):
			cc.hasLower = true
		case unicode.IsDigit(r):
			cc.hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			cc.hasSpecial = true
		}
	}
	return cc
}

// Validate checks a password against the policy and returns every
// violation found.
func (p PasswordPolicy) Validate(password string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations,
			fmt.Sprintf("password must be at least %d characters (got %d)", p.MinLength, len(password)))
	}

	cc := analyzeCharClasses(password)
	if p.RequireUppercase && !cc.hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if p.RequireLowercase && !cc.hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if p.RequireDigit && !cc.hasDigit {
		violations = append(violations, "password must contain at least one digit")
	}
	if p.RequireSpecial && !cc.hasSpecial {
		violations = append(violations, "password must contain at least one special character (!@#$%^&*...)")
	}

	if p.ForbidCommonPasswords && isCommonPassword(password) {
		violations = append(violations, "password is too common and easily guessable")
	}

	return violations
}

// ValidateWithError is a convenience method that returns a single error
// joining all violations, or nil when the password passes.
func (p PasswordPolicy) ValidateWithError(password string) error {
	violations := p.Validate(password)
	if len(violations) > 0 {
		return errors.New(strings.Join(violations, "; "))
	}
	return nil
}

// isCommonPassword checks the password against a list of frequently
// breached passwords. Matching is case-insensitive.
func isCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	commonPasswords := map[string]bool{
		"123456":       true,
		"password":     true,
		"123456789":    true,
		"12345678":     true,
		"1234567890":   true,
		"qwerty":       true,
		"qwerty123":    true,
		"qwertyuiop":   true,
		"abc123":       true,
		"abcd1234":     true,
		"password1":    true,
		"password123":  true,
		"password1!":   true,
		"passw0rd":     true,
		"p@ssw0rd":     true,
		"pa55word":     true,
		"admin":        true,
		"admin123":     true,
		"letmein":      true,
		"letmein123":   true,
		"welcome":      true,
		"welcome1":     true,
		"welcome123":   true,
		"iloveyou":     true,
		"sunshine":     true,
		"trustno1":     true,
		"dragon":       true,
		"monkey":       true,
		"master":       true,
		"shadow":       true,
		"superman":     true,
		"starwars":     true,
		"football":     true,
		"baseball":     true,
		"111111":       true,
		"11111111":     true,
		"000000":       true,
		"123123":       true,
		"123321":       true,
		"654321":       true,
		"1q2w3e4r":     true,
		"1qaz2wsx":     true,
		"asdfghjkl":    true,
		"zxcvbnm":      true,
		"changeme":     true,
		"default":      true,
		"secret":       true,
		"test123":      true,
		"testing123":   true,
		"guest":        true,
		"netflix":      true,
		"netflix123":   true,
		"videotheca":   true,
		"streaming":    true,
		"movies123":    true,
		"binge":        true,
		"popcorn":      true,
		"password@123": true,
		"welcome@123":  true,
	}
	return commonPasswords[lower]
}
