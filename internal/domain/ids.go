package domain

import (
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
)

var (
	nodeNamespace     = uuid.NewSHA1(uuid.NameSpaceOID, []byte("phago/node"))
	documentNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("phago/document"))
)

// NodeID identifies a node of the knowledge graph.
type NodeID = uuid.UUID

// DocumentID identifies an ingested document. Routing hashes its string form.
type DocumentID string

// NewNodeID returns a random node ID.
func NewNodeID() NodeID {
	return uuid.New()
}

// NodeIDFromSeed derives a deterministic node ID, used by tests and benchmarks.
func NodeIDFromSeed(seed uint64) NodeID {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	return uuid.NewSHA1(nodeNamespace, buf[:])
}

// NodeIDForLabel derives the ID of a concept node from its normalized label, so
// the same concept gets the same ID on every shard.
func NodeIDForLabel(label string) NodeID {
	return uuid.NewSHA1(nodeNamespace, []byte("concept:"+label))
}

// NodeIDForDocument derives the ID of the graph node that represents a document.
func NodeIDForDocument(id DocumentID) NodeID {
	return uuid.NewSHA1(nodeNamespace, []byte("document:"+string(id)))
}

// NewDocumentID returns a random document ID.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// DocumentIDFromSeed derives a deterministic document ID.
func DocumentIDFromSeed(seed uint64) DocumentID {
	return DocumentID(uuid.NewSHA1(documentNamespace, []byte(strconv.FormatUint(seed, 10))).String())
}

// DocumentIDFromInt formats a numeric (snowflake) identifier.
func DocumentIDFromInt(v int64) DocumentID {
	return DocumentID(strconv.FormatInt(v, 10))
}
