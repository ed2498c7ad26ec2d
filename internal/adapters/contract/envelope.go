package contract

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TransactionVariant is the tag of the SerializableTransactionData enum the Umi
// node expects in the data field of calls and transactions.
type TransactionVariant uint32

const (
	VariantEoaBaseTokenTransfer TransactionVariant = iota
	VariantScriptOrDeployment
	VariantEntryFunction
	VariantL2Contract
	VariantEvmContract
)

var errMalformedEnvelope = errors.New("malformed transaction envelope")

func (v TransactionVariant) String() string {
	switch v {
	case VariantEoaBaseTokenTransfer:
		return "EoaBaseTokenTransfer"
	case VariantScriptOrDeployment:
		return "ScriptOrDeployment"
	case VariantEntryFunction:
		return "EntryFunction"
	case VariantL2Contract:
		return "L2Contract"
	case VariantEvmContract:
		return "EvmContract"
	default:
		return fmt.Sprintf("TransactionVariant(%d)", uint32(v))
	}
}

// EncodeEvmContract wraps ABI calldata as the EvmContract(Vec<u8>) variant using
// BCS rules: ULEB128 variant index, ULEB128 length, raw bytes.
func EncodeEvmContract(calldata []byte) []byte {
	out := make([]byte, 0, len(calldata)+1+binary.MaxVarintLen32)
	out = binary.AppendUvarint(out, uint64(VariantEvmContract))
	out = binary.AppendUvarint(out, uint64(len(calldata)))
	return append(out, calldata...)
}

// DecodeEnvelope is the inverse of EncodeEvmContract. Unit variants carry no payload.
func DecodeEnvelope(data []byte) (TransactionVariant, []byte, error) {
	tag, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, fmt.Errorf("%w: bad variant tag", errMalformedEnvelope)
	}
	if tag > uint64(VariantEvmContract) {
		return 0, nil, fmt.Errorf("%w: unknown variant %d", errMalformedEnvelope, tag)
	}

	variant := TransactionVariant(tag)
	rest := data[n:]
	if variant != VariantEvmContract {
		if len(rest) != 0 {
			return 0, nil, fmt.Errorf("%w: trailing bytes after %s", errMalformedEnvelope, variant)
		}
		return variant, nil, nil
	}

	length, m := binary.Uvarint(rest)
	if m <= 0 {
		return 0, nil, fmt.Errorf("%w: bad payload length", errMalformedEnvelope)
	}
	rest = rest[m:]
	if uint64(len(rest)) != length {
		return 0, nil, fmt.Errorf("%w: payload length %d, have %d bytes", errMalformedEnvelope, length, len(rest))
	}

	return variant, rest, nil
}
