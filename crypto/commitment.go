package crypto

// VerifyCommitment checks a revealed secret against a previously stored hash
// commitment. Pure function, no state: commitment = Keccak256(secret).
func VerifyCommitment(commitment Hash, secret []byte) bool {
	return Keccak256(secret) == commitment
}
