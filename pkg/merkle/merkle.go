package merkle

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BuildOwnerTree creates a binary merkle tree committing to an owner roster.
// The addresses are sorted before building the tree so the commitment is
// deterministic regardless of the order owners were registered in.
//
// If there's an odd number of nodes at any level, the last node is duplicated.
func BuildOwnerTree(owners []common.Address) (*OwnerTree, error) {
	if len(owners) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree from empty owner list")
	}

	sorted := SortOwners(owners)

	leaves := make([][32]byte, len(sorted))
	for i, owner := range sorted {
		leaves[i] = HashOwner(owner)
	}

	levels := make([][][32]byte, 0)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0)

		for i := 0; i < len(currentLevel); i += 2 {
			var left, right [32]byte
			left = currentLevel[i]

			// If odd number of nodes, duplicate the last one
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			} else {
				right = currentLevel[i]
			}

			nextLevel = append(nextLevel, hashPair(left, right))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	if len(currentLevel) != 1 {
		return nil, fmt.Errorf("merkle tree construction failed: final level has %d nodes instead of 1", len(currentLevel))
	}

	return &OwnerTree{
		Leaves: leaves,
		Root:   currentLevel[0],
		levels: levels,
	}, nil
}

// OwnerSetRoot is a convenience wrapper returning just the commitment.
func OwnerSetRoot(owners []common.Address) ([32]byte, error) {
	tree, err := BuildOwnerTree(owners)
	if err != nil {
		return [32]byte{}, err
	}
	return tree.Root, nil
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (ot *OwnerTree) GenerateProof(leafIndex int) (*OwnerProof, error) {
	if leafIndex < 0 || leafIndex >= len(ot.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(ot.Leaves))
	}

	proof := make([][32]byte, 0)
	index := leafIndex

	for level := 0; level < len(ot.levels)-1; level++ {
		currentLevel := ot.levels[level]

		var siblingIndex int
		if index%2 == 0 {
			siblingIndex = index + 1
		} else {
			siblingIndex = index - 1
		}

		// Last node on an odd-sized level pairs with itself
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		proof = append(proof, currentLevel[siblingIndex])
		index = index / 2
	}

	return &OwnerProof{
		LeafIndex: leafIndex,
		Leaf:      ot.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// ProofForOwner generates the inclusion proof for a specific owner address.
func (ot *OwnerTree) ProofForOwner(owner common.Address) (*OwnerProof, error) {
	leaf := HashOwner(owner)
	for i, l := range ot.Leaves {
		if l == leaf {
			return ot.GenerateProof(i)
		}
	}
	return nil, fmt.Errorf("owner %s not in tree", owner.Hex())
}

// VerifyProof verifies that a leaf is included in the tree with the given root.
// It recomputes the root hash using the proof and checks if it matches.
func VerifyProof(proof *OwnerProof, root [32]byte) bool {
	if proof == nil {
		return false
	}

	currentHash := proof.Leaf
	index := proof.LeafIndex

	for _, siblingHash := range proof.Proof {
		if index%2 == 0 {
			currentHash = hashPair(currentHash, siblingHash)
		} else {
			currentHash = hashPair(siblingHash, currentHash)
		}
		index = index / 2
	}

	return currentHash == root
}

// HashOwner creates the keccak256 leaf hash of an owner address.
func HashOwner(owner common.Address) [32]byte {
	return [32]byte(crypto.Keccak256Hash(owner.Bytes()))
}

// SortOwners sorts addresses in ascending byte order without modifying the
// input. Deterministic ordering is what makes the commitment reproducible.
func SortOwners(owners []common.Address) []common.Address {
	sorted := make([]common.Address, len(owners))
	copy(sorted, owners)

	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})

	return sorted
}

// hashPair computes keccak256(left || right) for two 32-byte hashes.
func hashPair(left, right [32]byte) [32]byte {
	data := make([]byte, 64)
	copy(data[0:32], left[:])
	copy(data[32:64], right[:])

	return [32]byte(crypto.Keccak256Hash(data))
}
