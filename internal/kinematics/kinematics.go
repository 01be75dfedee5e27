// Package kinematics provides shared angular and momentum helpers for
// detector objects expressed in (pt, eta, phi) coordinates.
package kinematics

import "math"

// DeltaPhi returns phi1 - phi2 folded into [-pi, pi].
func DeltaPhi(phi1, phi2 float64) float64 {
	d := math.Mod(phi1-phi2, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// DeltaR2 returns the squared angular separation between two directions.
func DeltaR2(eta1, phi1, eta2, phi2 float64) float64 {
	dEta := eta1 - eta2
	dPhi := DeltaPhi(phi1, phi2)
	return dEta*dEta + dPhi*dPhi
}

// DeltaR returns the angular separation sqrt(dEta^2 + dPhi^2).
func DeltaR(eta1, phi1, eta2, phi2 float64) float64 {
	return math.Sqrt(DeltaR2(eta1, phi1, eta2, phi2))
}

// PtFromEnergy converts an energy at pseudorapidity eta into transverse momentum
// for a massless object.
func PtFromEnergy(energy, eta float64) float64 {
	return energy / math.Cosh(eta)
}
