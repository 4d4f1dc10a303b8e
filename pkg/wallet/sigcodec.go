package wallet

import "github.com/phimine/multisig-wallet/pkg/types"

// SplitSignature extracts the (r, s, v) components of the record at the
// given zero-based index from a buffer of concatenated 65-byte signatures.
//
// The codec is total: it performs explicit offset arithmetic and copies out
// of the owned buffer, but it does not enforce the buffer-length invariant.
// The verifier guarantees len(packed) >= threshold*65 before any record is
// decoded, so every offset computed here is in range.
func SplitSignature(packed []byte, index int) (r [32]byte, s [32]byte, v byte) {
	offset := index * types.SignatureLength
	copy(r[:], packed[offset:offset+32])
	copy(s[:], packed[offset+32:offset+64])
	v = packed[offset+64]
	return r, s, v
}
