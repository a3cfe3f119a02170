package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/mapprotocol/stateproof/internal/constant"
)

// Alarm posts operator notifications to a chat webhook. Identical messages
// are sent at most once per silence window. A nil *Alarm, or one without a
// hook, only logs.
type Alarm struct {
	prefix   string
	hooksUrl string
	silence  time.Duration
	client   *http.Client
	log      log.Logger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewAlarm(env, hooksUrl string) *Alarm {
	return &Alarm{
		prefix:   env,
		hooksUrl: hooksUrl,
		silence:  constant.AlarmSilence,
		client:   &http.Client{Timeout: constant.HttpTimeOut},
		log:      log.Root().New("module", "alarm"),
		sent:     make(map[string]time.Time),
	}
}

// Send delivers msg and reports whether it went out.
func (a *Alarm) Send(ctx context.Context, msg string) bool {
	if a == nil || a.hooksUrl == "" {
		log.Warn("alarm", "msg", msg)
		return false
	}
	if !a.mark(msg, time.Now()) {
		return false
	}

	body, err := json.Marshal(map[string]interface{}{
		"text": fmt.Sprintf("%s %s", a.prefix, msg),
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.hooksUrl, bytes.NewReader(body))
	if err != nil {
		a.log.Warn("build alarm request failed", "err", err)
		return false
	}
	req.Header.Set("Content-type", "application/json")
	req.Header.Set("User-Agent", constant.Agent)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("send alarm failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.log.Warn("read resp failed", "err", err)
		return false
	}
	a.log.Debug("send alarm message", "status", resp.StatusCode, "resp", string(data))
	return resp.StatusCode < http.StatusBadRequest
}

// mark records msg as sent unless it already went out inside the window.
// Entries older than the window are dropped on the way.
func (a *Alarm) mark(msg string, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, last := range a.sent {
		if now.Sub(last) >= a.silence {
			delete(a.sent, k)
		}
	}
	if _, ok := a.sent[msg]; ok {
		return false
	}
	a.sent[msg] = now
	return true
}
