package services

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxStoredAlerts      = 100
)

// LoginAlert is raised when an address keeps failing to sign in
type LoginAlert struct {
	Timestamp time.Time
	IP        string
	Usernames []string
	Attempts  int
}

// LoginMonitor counts failed logins per address and raises an alert once
// the threshold is crossed inside the window
type LoginMonitor struct {
	mu       sync.Mutex
	attempts map[string][]failedAttempt
	alerted  map[string]time.Time
	alerts   []LoginAlert
	onAlert  func(LoginAlert)
	now      func() time.Time
}

type failedAttempt struct {
	at       time.Time
	username string
}

// Monitor is the process-wide login monitor, nil until InitLoginMonitor runs
var Monitor *LoginMonitor

// NewLoginMonitor builds a monitor. onAlert may be nil.
func NewLoginMonitor(onAlert func(LoginAlert)) *LoginMonitor {
	return &LoginMonitor{
		attempts: make(map[string][]failedAttempt),
		alerted:  make(map[string]time.Time),
		onAlert:  onAlert,
		now:      time.Now,
	}
}

// InitLoginMonitor installs the global monitor
func InitLoginMonitor(onAlert func(LoginAlert)) {
	Monitor = NewLoginMonitor(onAlert)
}

// TrackFailedLogin records a failure and reports whether it raised an alert
func (m *LoginMonitor) TrackFailedLogin(ip, username string) bool {
	m.mu.Lock()
	now := m.now()
	recent := m.attempts[ip][:0]
	for _, a := range m.attempts[ip] {
		if now.Sub(a.at) < failedLoginWindow {
			recent = append(recent, a)
		}
	}
	recent = append(recent, failedAttempt{at: now, username: username})
	m.attempts[ip] = recent

	if len(recent) < failedLoginThreshold {
		m.mu.Unlock()
		return false
	}
	if last, ok := m.alerted[ip]; ok && now.Sub(last) < alertCooldown {
		m.mu.Unlock()
		return false
	}
	m.alerted[ip] = now

	alert := LoginAlert{Timestamp: now, IP: ip, Attempts: len(recent), Usernames: distinctUsernames(recent)}
	m.alerts = append([]LoginAlert{alert}, m.alerts...)
	if len(m.alerts) > maxStoredAlerts {
		m.alerts = m.alerts[:maxStoredAlerts]
	}
	onAlert := m.onAlert
	m.mu.Unlock()

	log.Warn().Str("ip", ip).Int("attempts", alert.Attempts).Strs("usernames", alert.Usernames).Msg("repeated failed logins")
	if onAlert != nil {
		onAlert(alert)
	}
	return true
}

// RecentAlerts returns the raised alerts, newest first
func (m *LoginMonitor) RecentAlerts() []LoginAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LoginAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Cleanup drops attempts outside the window and expired cooldowns
func (m *LoginMonitor) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for ip, attempts := range m.attempts {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1].at) >= failedLoginWindow {
			delete(m.attempts, ip)
		}
	}
	for ip, last := range m.alerted {
		if now.Sub(last) >= alertCooldown {
			delete(m.alerted, ip)
		}
	}
}

func distinctUsernames(attempts []failedAttempt) []string {
	seen := make(map[string]bool, len(attempts))
	var names []string
	for _, a := range attempts {
		if a.username != "" && !seen[a.username] {
			seen[a.username] = true
			names = append(names, a.username)
		}
	}
	return names
}
