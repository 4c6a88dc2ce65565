package plan

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnsupportedNetwork = errors.New("contract is not configured for network")
	ErrArgumentMismatch   = errors.New("constructor arguments do not match the contract")
)

// Lookup returns the declaration of a contract.
func Lookup(name contracts.Name) (Contract, bool) {
	contract, ok := table[name]
	return contract, ok
}

// Networks lists the networks a contract has a row for, in display order.
func (c Contract) Networks() []configs.NetworkName {
	var out []configs.NetworkName
	for _, name := range configs.NetworkNames {
		if _, ok := c.Rows[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Args returns the row of name on network with the deployer placeholder bound to deployer.
func Args(name contracts.Name, network configs.NetworkName, deployer common.Address) ([]string, error) {
	contract, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no constructor table", ErrUnsupportedNetwork, name)
	}

	row, ok := contract.Rows[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s (supported: %v)", ErrUnsupportedNetwork, name, network, contract.Networks())
	}

	args := make([]string, len(row))
	for i, value := range row {
		if value == DeployerValue {
			value = deployer.Hex()
		}
		args[i] = value
	}

	return args, nil
}

// Pack converts string values into the Go types the ABI encoder expects for inputs.
func Pack(inputs abi.Arguments, values []string) ([]any, error) {
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("%w: constructor takes %d arguments, got %d", ErrArgumentMismatch, len(inputs), len(values))
	}

	out := make([]any, len(values))
	for i, input := range inputs {
		converted, err := convert(input.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d (%s %s): %w", ErrArgumentMismatch, i, input.Type.String(), input.Name, err)
		}
		out[i] = converted
	}

	return out, nil
}

// Encode returns the ABI-encoded constructor arguments, as explorers expect them.
func Encode(inputs abi.Arguments, values []string) ([]byte, error) {
	packed, err := Pack(inputs, values)
	if err != nil {
		return nil, err
	}

	encoded, err := inputs.Pack(packed...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return encoded, nil
}

func convert(t abi.Type, value string) (any, error) {
	value = strings.TrimSpace(value)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%q is not an address", value)
		}
		return common.HexToAddress(value), nil

	case abi.UintTy, abi.IntTy:
		n, ok := parseInt(value)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", value)
		}
		if t.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("%q is negative", value)
		}
		if !fits(t, n) {
			return nil, fmt.Errorf("%q overflows %s", value, t.String())
		}
		return sized(t, n), nil

	case abi.BoolTy:
		switch strings.ToLower(value) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a bool", value)

	case abi.StringTy:
		return value, nil

	default:
		return nil, fmt.Errorf("unsupported constructor type %s", t.String())
	}
}

// fits reports whether n is in the range of the integer type t.
func fits(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.BitLen() <= t.Size
	}
	if n.Sign() >= 0 {
		return n.BitLen() <= t.Size-1
	}
	// -2^(size-1) is the smallest value, so check |n|-1.
	magnitude := new(big.Int).Neg(n)
	return magnitude.Sub(magnitude, big.NewInt(1)).BitLen() <= t.Size-1
}

// sized narrows n to the integer type go-ethereum maps t to.
func sized(t abi.Type, n *big.Int) any {
	if t.T == abi.UintTy {
		switch t.Size {
		case 8:
			return uint8(n.Uint64())
		case 16:
			return uint16(n.Uint64())
		case 32:
			return uint32(n.Uint64())
		case 64:
			return n.Uint64()
		}
		return n
	}

	switch t.Size {
	case 8:
		return int8(n.Int64())
	case 16:
		return int16(n.Int64())
	case 32:
		return int32(n.Int64())
	case 64:
		return n.Int64()
	}
	return n
}

// KnownAddress returns the address a contract is already deployed at on network.
func KnownAddress(name contracts.Name, network configs.NetworkName) (common.Address, bool) {
	address, ok := knownAddresses[name][network]
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(address), true
}

// KnownAddresses returns every known deployment of name in network display order.
func KnownAddresses(name contracts.Name) []common.Address {
	var out []common.Address
	for _, network := range configs.NetworkNames {
		if address, ok := KnownAddress(name, network); ok {
			out = append(out, address)
		}
	}
	return out
}

// AllowlistSelectors returns the CCIP selectors ParaCCIP allow-lists, in order.
func AllowlistSelectors() ([]uint64, error) {
	return networks.SelectorsFor(allowlistChainIDs...)
}

// Validate checks every row against its contract's declared parameters.
func Validate() error {
	var errs []error

	for _, name := range sortedNames() {
		contract := table[name]
		for _, network := range contract.Networks() {
			if err := contract.validateRow(contract.Rows[network]); err != nil {
				errs = append(errs, fmt.Errorf("%s on %s: %w", name, network, err))
			}
		}
	}

	for name, byNetwork := range knownAddresses {
		for network, address := range byNetwork {
			if !common.IsHexAddress(address) {
				errs = append(errs, fmt.Errorf("known address of %s on %s is invalid: %q", name, network, address))
			}
		}
	}

	return errors.Join(errs...)
}

func (c Contract) validateRow(row []string) error {
	if len(row) != len(c.Params) {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrArgumentMismatch, len(c.Params), len(row))
	}

	var errs []error
	for i, param := range c.Params {
		value := row[i]
		switch param.Kind {
		case KindAddress:
			if value != DeployerValue && !common.IsHexAddress(value) {
				errs = append(errs, fmt.Errorf("%s: %q is not an address", param.Name, value))
			}
		case KindUint:
			n, ok := parseInt(value)
			if !ok || n.Sign() < 0 {
				errs = append(errs, fmt.Errorf("%s: %q is not an unsigned integer", param.Name, value))
			}
		}
	}

	return errors.Join(errs...)
}

// parseInt accepts decimal and 0x-prefixed hex integers.
func parseInt(value string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimSpace(value), 0)
}

func sortedNames() []contracts.Name {
	return []contracts.Name{
		contracts.NameParaCCIP,
		contracts.NameParaSameSwap,
		contracts.NameCCTPSwap,
		contracts.NameAvaxInstantSwap,
		contracts.NameCSWAPSmartRouter,
	}
}
