// Package calibration fits and applies pixel-to-wavelength mappings.
//
// A Model is a polynomial of order 1 to 3 fitted by least squares to
// operator-supplied calibration points. Pixel positions are scaled to
// [-1, 1] before the QR solve and the coefficients are expanded back to raw
// pixel powers, so Apply evaluates a plain polynomial in the pixel
// position. Models are immutable once fitted and safe for concurrent use.
//
// Models persist as a versioned JSON document (Serialize, Deserialize) or
// as the same document encoded in CBOR for binary transports.
package calibration
