package e2e

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kunalkv2000/reset-password/internal/infrastructure/repositories"
)

var emailSeq atomic.Int64

// generateTestEmail returns an address unique within the test binary
func generateTestEmail() string {
	return fmt.Sprintf("user%d.%d@example.com", time.Now().UnixNano()%1_000_000, emailSeq.Add(1))
}

// registerAndLogin registers a fresh account with c and returns its email
func registerAndLogin(t *testing.T, c *Client, password string) string {
	t.Helper()
	email := generateTestEmail()
	resp := c.Post("/api/auth/register", map[string]string{
		"name":     "E2E User",
		"email":    email,
		"password": password,
	})
	if !resp.Success() {
		t.Fatalf("register failed: %d %v", resp.Status, resp.Body)
	}
	return email
}

// loadUser reads the stored row directly, bypassing the service layer
func (s *TestSuite) loadUser(t *testing.T, email string) repositories.DBUser {
	t.Helper()
	var u repositories.DBUser
	if err := s.DB.Where("email = ?", email).First(&u).Error; err != nil {
		t.Fatalf("load user %s: %v", email, err)
	}
	return u
}

// countUsers returns how many rows carry the email
func (s *TestSuite) countUsers(t *testing.T, email string) int64 {
	t.Helper()
	var n int64
	if err := s.DB.Model(&repositories.DBUser{}).Where("email = ?", email).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

// expireOTP moves the stored expiry of one slot into the past
func (s *TestSuite) expireOTP(t *testing.T, email, column string) {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	if err := s.DB.Model(&repositories.DBUser{}).Where("email = ?", email).Update(column, past).Error; err != nil {
		t.Fatalf("expire %s: %v", column, err)
	}
}
