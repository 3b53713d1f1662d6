package openai

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/ragforge/embed"
)

// statusRe pulls the HTTP status code out of langchaingo's API error
// messages ("API returned unexpected status code: 429 ...").
var statusRe = regexp.MustCompile(`status code:?\s*(\d{3})`)

// classify maps a provider error onto the embed package's error taxonomy.
// Rate limits and 5xx are transient, other 4xx are permanent, and network
// failures count as the service being unavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if m := statusRe.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch {
		case code == 429:
			return fmt.Errorf("%w: %v", embed.ErrRateLimited, err)
		case code >= 500:
			return fmt.Errorf("%w: %v", embed.ErrServiceUnavailable, err)
		case code >= 400:
			return fmt.Errorf("%w: %v", embed.ErrInvalidRequest, err)
		}
	}

	if strings.Contains(strings.ToLower(msg), "rate limit") {
		return fmt.Errorf("%w: %v", embed.ErrRateLimited, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", embed.ErrServiceUnavailable, err)
	}

	return err
}
