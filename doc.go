// Package sentryboot implements a resident, authenticated firmware loader
// for a small Cortex-M0+ target: it occupies the reserved low region of
// on-chip flash, enumerates as a CDC-ACM virtual serial port, and accepts a
// line-and-binary protocol that erases the application region, streams a new
// image page by page with per-block CRC verification, and installs it only
// once an Ed25519 signature over the image's SHA-256 digest checks out.
//
// # References:
//
// FIPS 180-4, Secure Hash Standard (SHS) — SHA-256 and SHA-512.
//
// RFC 8032, Edwards-Curve Digital Signature Algorithm (EdDSA) — Ed25519
// verification, field/curve/scalar arithmetic (ref10-style).
//
// USB CDC-ACM, PSTN subclass specification — line coding and the 1200-baud
// "touch" convention used by C6's entry predicate.
package sentryboot
