package domain

import "fmt"

// GenerateStableIBAN derives a pseudo-IBAN from the owning client id and
// the account's sequence number within that client's account set. The
// same (clientID, seq) pair always yields the same number, which keeps
// demo account numbers stable across reloads.
//
// This is a demo convenience built on a simple additive hash. It is NOT
// collision-resistant and must not be mistaken for production account
// numbering.
func GenerateStableIBAN(clientID string, seq int) string {
	h := stableHash(fmt.Sprintf("%s%d", clientID, seq))
	bankCode := 1000 + h%9000
	accountCode := fmt.Sprintf("%08d", 10000000+h%90000000)
	key := 100 + h%900

	return fmt.Sprintf("FR76 %04d %s %s %03d", bankCode, accountCode[:4], accountCode[4:8], key)
}

// stableHash is an order-dependent 32-bit additive hash (h = h*31 + c)
// reduced to a non-negative int.
func stableHash(s string) int {
	var h uint32
	for _, r := range s {
		h = h*31 + uint32(r)
	}
	return int(h & 0x7fffffff)
}
