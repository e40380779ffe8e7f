package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultSignatureTolerance bounds how old a signed notification may be
// when it is verified.
const DefaultSignatureTolerance = 5 * time.Minute

var (
	ErrSignatureMalformed = errors.New("malformed signature header")
	ErrSignatureExpired   = errors.New("signature timestamp outside tolerance")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// HMACNotificationSigner signs notifications with HMAC-SHA256.
//
// Header format: "t=<unix seconds>,v1=<hex mac>". The MAC covers
// "<t>.<event id>.<body>". Receivers accept any v1 entry, so several may be
// sent while a secret is rotated.
type HMACNotificationSigner struct {
	secret    []byte
	tolerance time.Duration
}

// NewHMACNotificationSigner creates a signer. A zero tolerance disables the
// timestamp check in Verify.
func NewHMACNotificationSigner(secret string, tolerance time.Duration) *HMACNotificationSigner {
	return &HMACNotificationSigner{secret: []byte(secret), tolerance: tolerance}
}

func (s *HMACNotificationSigner) Sign(ts time.Time, eventID string, body []byte) string {
	t := ts.Unix()
	return "t=" + strconv.FormatInt(t, 10) + ",v1=" + s.mac(t, eventID, body)
}

func (s *HMACNotificationSigner) Verify(header string, eventID string, body []byte, now time.Time) error {
	var (
		t     int64
		haveT bool
		sigs  []string
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrSignatureMalformed
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrSignatureMalformed
			}
			t, haveT = n, true
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if !haveT || len(sigs) == 0 {
		return ErrSignatureMalformed
	}

	if s.tolerance > 0 {
		age := now.Sub(time.Unix(t, 0))
		if age < 0 {
			age = -age
		}
		if age > s.tolerance {
			return ErrSignatureExpired
		}
	}

	want := []byte(s.mac(t, eventID, body))
	for _, sig := range sigs {
		if hmac.Equal(want, []byte(sig)) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

func (s *HMACNotificationSigner) mac(t int64, eventID string, body []byte) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(strconv.FormatInt(t, 10) + "." + eventID + "."))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}
