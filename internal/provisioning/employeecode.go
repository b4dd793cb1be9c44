package provisioning

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const employeeCodePrefix = "EMP"

// generateEmployeeCode builds a human-readable, collision-resistant code:
// a fixed prefix, six time-derived digits and four random digits. Uniqueness
// is still enforced by the database constraint; collisions are handled by
// bounded retry in the engine.
func generateEmployeeCode(now time.Time) (string, error) {
	random, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d%04d", employeeCodePrefix, now.Unix()%1000000, random.Int64()), nil
}
