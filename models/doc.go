// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest: name, age, email, mobile, address, aadharCardNumber, password, role
  - LoginRequest: aadharCardNumber, password
  - ChangePasswordRequest: currentPassword, newPassword
  - CandidateRequest: name, party, age, electionType

# Response Types

Types for JSON responses:

  - SignupResponse: user, token
  - LoginResponse: token
  - MessageResponse: message
  - VoteResponse: message, candidateId, votedAt
  - DeleteCandidateResponse: message, candidate
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: registered voter or the single administrator
  - Candidate: contestant with its vote record and running count
  - Vote: voter reference and timestamp inside a candidate's record
  - CandidateSummary: listing view without the vote record
  - TallyEntry: name, party, election type and count

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"

Election types (matched case-insensitively by ParseElectionType):

	ElectionLokSabha      = "LokSabha"
	ElectionStateAssembly = "StateAssembly"
*/
package models
