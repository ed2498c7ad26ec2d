package domain

import (
	"fmt"
	"math/big"
	"strings"
)

const EtherDecimals = 18

// FormatEther converts wei to an ether decimal string without float precision loss.
// Trailing fractional zeros are dropped: 1500000000000000000 becomes "1.5".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	s := formatWithDecimals(wei, EtherDecimals)
	if !strings.Contains(s, ".") {
		return s
	}

	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatEtherFixed rounds half up to the given number of fractional digits.
func FormatEtherFixed(wei *big.Int, places int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	if places < 0 {
		places = 0
	}
	if places >= EtherDecimals {
		return formatWithDecimals(wei, EtherDecimals)
	}

	negative := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	divisor := pow10(EtherDecimals - places)
	half := new(big.Int).Rsh(divisor, 1)
	scaled := new(big.Int).Add(abs, half)
	scaled.Quo(scaled, divisor)

	s := formatWithDecimals(scaled, places)
	if negative && scaled.Sign() != 0 {
		s = "-" + s
	}

	return s
}

// DisplayBalance renders a stored ether string with four fractional digits.
func DisplayBalance(ether string) string {
	if strings.TrimSpace(ether) == "" {
		return ""
	}

	wei, err := ParseEther(ether)
	if err != nil {
		return ether
	}

	return FormatEtherFixed(wei, 4)
}

// ParseEther converts an ether decimal string to wei.
func ParseEther(value string) (*big.Int, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasPoint := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if whole == "" {
		whole = "0"
	}
	if hasPoint && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if len(frac) > EtherDecimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", value, EtherDecimals)
	}

	frac += strings.Repeat("0", EtherDecimals-len(frac))
	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if negative {
		wei.Neg(wei)
	}

	return wei, nil
}

func formatWithDecimals(value *big.Int, decimals int) string {
	s := new(big.Int).Abs(value).String()
	if decimals == 0 {
		if value.Sign() < 0 {
			return "-" + s
		}
		return s
	}

	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	out := s[:pos] + "." + s[pos:]
	if value.Sign() < 0 {
		out = "-" + out
	}

	return out
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
