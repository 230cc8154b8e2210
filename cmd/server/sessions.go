package main

import (
	"context"
	"net/http"

	"github.com/Simplici0/steelcalc/internal/pricing"
)

type sessionKey struct{}

type sessionValue struct {
	id     string
	engine *pricing.Engine
}

// sessionMiddleware attaches the caller's engine to the request, starting a
// new session when the cookie is missing, forged or expired.
func (s *server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := s.signer.FromRequest(r)
		id, engine, created := s.sessions.Acquire(id)
		if created {
			s.signer.SetCookie(w, id)
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sessionValue{id: id, engine: engine})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) sessionValue {
	v, _ := r.Context().Value(sessionKey{}).(sessionValue)
	return v
}

func engineFrom(r *http.Request) *pricing.Engine {
	return sessionFrom(r).engine
}
