package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	methodSubmitMeme        = "submitMeme"
	methodGetCurrentContest = "getCurrentContest"
	methodGetMemesByContest = "getMemesByContest"
	methodMemes             = "memes"
	methodSubmissionFee     = "SUBMISSION_FEE"
	eventMemeSubmitted      = "MemeSubmitted"
)

// getCurrentContest declares only the leading contest id word; any fields
// the deployed contract returns after it are ignored when decoding.
const memePoolABIJSON = `[
	{"type":"function","name":"submitMeme","stateMutability":"payable",
	 "inputs":[{"name":"ipfsCid","type":"string"}],
	 "outputs":[{"name":"tokenId","type":"uint256"}]},
	{"type":"function","name":"getCurrentContest","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"id","type":"uint256"}]},
	{"type":"function","name":"getMemesByContest","stateMutability":"view",
	 "inputs":[{"name":"contestId","type":"uint256"}],
	 "outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"memes","stateMutability":"view",
	 "inputs":[{"name":"","type":"uint256"}],
	 "outputs":[
		{"name":"tokenId","type":"uint256"},
		{"name":"creator","type":"address"},
		{"name":"ipfsCid","type":"string"},
		{"name":"contestId","type":"uint256"},
		{"name":"totalStake","type":"uint256"},
		{"name":"isWinner","type":"bool"},
		{"name":"timestamp","type":"uint256"}]},
	{"type":"function","name":"SUBMISSION_FEE","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"MemeSubmitted","anonymous":false,
	 "inputs":[
		{"name":"tokenId","type":"uint256","indexed":true},
		{"name":"creator","type":"address","indexed":true},
		{"name":"ipfsCid","type":"string","indexed":false},
		{"name":"contestId","type":"uint256","indexed":false}]}
]`

var memePoolABI = mustParseABI(memePoolABIJSON)

// ABI exposes the parsed interface, mainly for tests that need to fake contract responses.
func ABI() abi.ABI {
	return memePoolABI
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}
