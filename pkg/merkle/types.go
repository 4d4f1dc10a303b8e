package merkle

// OwnerTree is a binary merkle tree over a wallet's owner roster.
// The tree uses keccak256 hashing for Solidity compatibility.
type OwnerTree struct {
	// Leaves contains the leaf hashes of the sorted owner addresses
	Leaves [][32]byte

	// Root is the merkle root hash, the owner-set commitment
	Root [32]byte

	// levels stores all tree levels for proof generation
	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte
}

// OwnerProof proves that one owner is included in the committed roster.
// The proof consists of sibling hashes along the path from leaf to root.
type OwnerProof struct {
	// LeafIndex is the index of the leaf in the sorted leaves array
	LeafIndex int

	// Leaf is the hash of the owner being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root
	// proof[0] is the sibling of the leaf, proof[len-1] is near the root
	Proof [][32]byte
}
