package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type (
	authAction string
	authResult string
)

const (
	actionRegister authAction = "register"
	actionLogin    authAction = "login"
	actionLogout   authAction = "logout"

	resultSuccess  authResult = "success"
	resultInvalid  authResult = "invalid"
	resultConflict authResult = "conflict"
	resultDenied   authResult = "failure"
	resultError    authResult = "error"
)

var (
	credentialRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsboard_auth_requests_total",
			Help: "Register, login and logout requests by result",
		},
		[]string{"action", "result"},
	)

	rejectedSessions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsboard_invalid_session_tokens_total",
			Help: "Requests whose session cookie failed verification",
		},
	)
)

func record(a authAction, r authResult) {
	credentialRequests.WithLabelValues(string(a), string(r)).Inc()
}
