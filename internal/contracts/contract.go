package contracts

import "github.com/ethereum/go-ethereum/accounts/abi"

type (
	Name string

	CompiledContract struct {
		Name            Name
		ABI             abi.ABI
		RawABI          string
		Bytecode        []byte
		SourceName      string
		CompilerVersion string
		// BuildInfo is the build-info file holding the standard-JSON compiler input,
		// relative to the artifacts directory.
		BuildInfo string
	}
)

const (
	NameParaCCIP         Name = "ParaCCIP"
	NameParaSameSwap     Name = "ParaSameSwap"
	NameCCTPSwap         Name = "CCTPSwap"
	NameAvaxInstantSwap  Name = "AvaxInstantSwap"
	NameCSWAPSmartRouter Name = "CSWAPSmartRouter"
)

var Contracts = map[Name]struct{}{
	NameParaCCIP:         {},
	NameParaSameSwap:     {},
	NameCCTPSwap:         {},
	NameAvaxInstantSwap:  {},
	NameCSWAPSmartRouter: {},
}

// FullyQualifiedName is the "<source>:<contract>" form explorers expect.
func (c CompiledContract) FullyQualifiedName() string {
	if c.SourceName == "" {
		return string(c.Name)
	}
	return c.SourceName + ":" + string(c.Name)
}
