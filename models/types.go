package models

import (
	"strings"
	"time"
)

// Role constants
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Election type constants
const (
	ElectionLokSabha      = "LokSabha"
	ElectionStateAssembly = "StateAssembly"
)

// ElectionTypes lists every accepted election type in canonical spelling.
var ElectionTypes = []string{ElectionLokSabha, ElectionStateAssembly}

// ParseElectionType matches s case-insensitively against the known election
// types and returns the canonical spelling.
func ParseElectionType(s string) (string, bool) {
	for _, et := range ElectionTypes {
		if strings.EqualFold(strings.TrimSpace(s), et) {
			return et, true
		}
	}
	return "", false
}

// Request types

type SignupRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Email            string `json:"email"`
	Mobile           string `json:"mobile"`
	Address          string `json:"address"`
	AadharCardNumber string `json:"aadharCardNumber"`
	Password         string `json:"password"`
	Role             string `json:"role"`
}

type LoginRequest struct {
	AadharCardNumber string `json:"aadharCardNumber"`
	Password         string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Zero-valued fields are left untouched on update.
type CandidateRequest struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	Age          int    `json:"age"`
	ElectionType string `json:"electionType"`
}

// Response types

type SignupResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type VoteResponse struct {
	Message     string    `json:"message"`
	CandidateID string    `json:"candidateId"`
	VotedAt     time.Time `json:"votedAt"`
}

type DeleteCandidateResponse struct {
	Message   string    `json:"message"`
	Candidate Candidate `json:"candidate"`
}

// Domain types

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Email            string    `json:"email,omitempty"`
	Mobile           string    `json:"mobile,omitempty"`
	Address          string    `json:"address"`
	AadharCardNumber string    `json:"aadharCardNumber"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	IsVoted          bool      `json:"isVoted"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Vote is one entry of a candidate's vote record.
type Vote struct {
	VoterID string    `json:"user"`
	VotedAt time.Time `json:"votedAt"`
}

type Candidate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Party        string    `json:"party"`
	Age          int       `json:"age"`
	ElectionType string    `json:"electionType"`
	Votes        []Vote    `json:"votes,omitempty"`
	VoteCount    int       `json:"voteCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CandidateSummary is the public listing view of a candidate.
type CandidateSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Party        string `json:"party"`
	ElectionType string `json:"electionType"`
}

// TallyEntry is one row of the vote count listing.
type TallyEntry struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	ElectionType string `json:"electionType"`
	Count        int    `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
