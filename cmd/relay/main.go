package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vaultlink/internal/domain"
)

// sessionQueue holds everything the relay keeps for one session: the
// persistent message queue, staged rotation entries, and the signing key
// last registered by the device.
type sessionQueue struct {
	messages []domain.QueuedMessage
	rotation []domain.RotationEntry
	signing  []byte
	consumed int // rotation entries already applied by the device
}

type relayState struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*sessionQueue
	wake     chan struct{}
	log      *logrus.Logger
}

func newRelayState(log *logrus.Logger) *relayState {
	return &relayState{
		sessions: make(map[domain.SessionID]*sessionQueue),
		wake:     make(chan struct{}),
		log:      log,
	}
}

func (s *relayState) queue(id domain.SessionID) *sessionQueue {
	q, ok := s.sessions[id]
	if !ok {
		q = &sessionQueue{}
		s.sessions[id] = q
	}
	return q
}

// notify wakes every long-poller; they re-check their own queue.
func (s *relayState) notify() {
	close(s.wake)
	s.wake = make(chan struct{})
}

func (s *relayState) publish(id domain.SessionID, cipher []byte) domain.AckToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := domain.AckToken(uuid.NewString())
	q := s.queue(id)
	q.messages = append(q.messages, domain.QueuedMessage{Cipher: cipher, Token: token})
	s.notify()
	return token
}

// poll returns queued messages, waiting up to wait for the first one.
// Messages stay queued until acknowledged by token.
func (s *relayState) poll(id domain.SessionID, wait time.Duration) []domain.QueuedMessage {
	deadline := time.Now().Add(wait)
	for {
		s.mu.Lock()
		q := s.queue(id)
		if len(q.messages) > 0 {
			out := make([]domain.QueuedMessage, len(q.messages))
			copy(out, q.messages)
			s.mu.Unlock()
			return out
		}
		wake := s.wake
		s.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		select {
		case <-wake:
		case <-time.After(remaining):
			return nil
		}
	}
}

func (s *relayState) acknowledge(id domain.SessionID, token domain.AckToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue(id)
	for i, m := range q.messages {
		if m.Token == token {
			q.messages = append(q.messages[:i], q.messages[i+1:]...)
			return true
		}
	}
	return false
}

func (s *relayState) stageRotation(id domain.SessionID, cipher []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue(id).rotation = append(s.queue(id).rotation, domain.RotationEntry{Cipher: cipher})
}

// pendingRotation returns the entries the device has not applied yet.
func (s *relayState) pendingRotation(id domain.SessionID) []domain.RotationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue(id)
	out := make([]domain.RotationEntry, len(q.rotation)-q.consumed)
	copy(out, q.rotation[q.consumed:])
	return out
}

// registerSigningKey installs the device's post-rotation key. The fence
// must equal the number of pending entries the device consumed; a stale
// fence means the device raced a newer rotation and must re-fetch.
func (s *relayState) registerSigningKey(id domain.SessionID, pub []byte, fence int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue(id)
	if fence != len(q.rotation)-q.consumed {
		return false
	}
	q.signing = pub
	q.consumed = len(q.rotation)
	return true
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log := logrus.New()
	state := newRelayState(log)

	mux := http.NewServeMux()
	mux.HandleFunc("/session/", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := state.route(w, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})

	log.WithField("addr", *addr).Info("relay listening")
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.WithError(err).Fatal("relay stopped")
	}
}

// route dispatches /session/{id}/{op} and returns the response status.
func (s *relayState) route(w http.ResponseWriter, r *http.Request) int {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		return fail(w, http.StatusNotFound, "unknown path")
	}
	id := domain.SessionID(parts[1])

	switch parts[2] + " " + r.Method {
	case "publish POST":
		var in struct {
			Cipher string `json:"cipher"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		cipher, err := base64.StdEncoding.DecodeString(in.Cipher)
		if err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		s.publish(id, cipher)
		return ok(w, nil)

	case "messages GET":
		wait := 0
		if v := r.URL.Query().Get("wait"); v != "" {
			wait, _ = strconv.Atoi(v)
		}
		msgs := s.poll(id, time.Duration(wait)*time.Second)
		if msgs == nil {
			msgs = []domain.QueuedMessage{}
		}
		return ok(w, msgs)

	case "ack POST":
		var in struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		if !s.acknowledge(id, domain.AckToken(in.Token)) {
			return fail(w, http.StatusNotFound, "unknown token")
		}
		return ok(w, nil)

	case "rotation GET":
		return ok(w, s.pendingRotation(id))

	case "rotation POST":
		var in struct {
			Cipher []byte `json:"cipher"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		s.stageRotation(id, in.Cipher)
		return ok(w, nil)

	case "signing-key POST":
		var in struct {
			PublicKey string `json:"public_key"`
			Fence     int    `json:"fence"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		pub, err := base64.StdEncoding.DecodeString(in.PublicKey)
		if err != nil {
			return fail(w, http.StatusBadRequest, err.Error())
		}
		if !s.registerSigningKey(id, pub, in.Fence) {
			return fail(w, http.StatusConflict, "stale rotation fence")
		}
		return ok(w, nil)
	}
	return fail(w, http.StatusNotFound, "unknown operation")
}

func ok(w http.ResponseWriter, body any) int {
	if body == nil {
		w.WriteHeader(http.StatusNoContent)
		return http.StatusNoContent
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
	return http.StatusOK
}

func fail(w http.ResponseWriter, status int, msg string) int {
	http.Error(w, msg, status)
	return status
}
