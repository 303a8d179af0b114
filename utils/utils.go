package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// KST is the plant's local zone. Every stored timestamp uses it, matching
// the spreadsheets the office works with.
var KST = time.FixedZone("KST", 9*60*60)

// TimeLayout is the stored timestamp format. Microseconds keep entry
// timestamps unique enough to serve as row keys for edit and delete.
const TimeLayout = "2006-01-02 15:04:05.000000"

// DateLayout is the stored date format.
const DateLayout = "2006-01-02"

// NowKST returns the current plant-local time.
func NowKST() time.Time {
	return time.Now().In(KST)
}

// FormatTime renders t in the stored timestamp format.
func FormatTime(t time.Time) string {
	return t.In(KST).Format(TimeLayout)
}

// ParseTime reads a stored timestamp; malformed values collapse to the zero
// time so one bad spreadsheet cell cannot poison a whole table load.
func ParseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(s), KST)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseDate reads a stored date cell.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), KST)
}

// ParseIntSafe converts a stored cell to int, tolerating blanks, commas and
// stray decimals the same way the spreadsheet did.
func ParseIntSafe(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ParseFloatPtr converts an optional threshold cell; blank means unset.
func ParseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatFloatPtr renders an optional threshold back to its cell form.
func FormatFloatPtr(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func secretKey() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("smt-dashboard")
}

// GenerateJWT creates a short-lived access token carrying the user identity
// and role for the request-scoped actor context.
func GenerateJWT(userID, name, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"role":    role,
		"type":    "access",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// GenerateRefreshToken creates a long-lived refresh token bound to a single
// session/device.
func GenerateRefreshToken(userID, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"type":      "refresh",
		"sessionId": sessionID,
		"exp":       time.Now().Add(15 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

func ValidatePassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}
