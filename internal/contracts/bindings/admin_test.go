package bindings

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParaCCIPAdmin(t *testing.T) {
	parsed, err := ParaCCIPAdmin()
	require.NoError(t, err)

	for _, method := range []string{MethodAllowlistDestinationChain, MethodAllowlistSourceChain, MethodAllowlistSender} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, method)
	}

	data, err := parsed.Pack(MethodAllowlistDestinationChain, uint64(5009297550715157269), true)
	require.NoError(t, err)
	assert.Len(t, data, 4+32+32)
	assert.Equal(t, parsed.Methods[MethodAllowlistDestinationChain].ID, data[:4])
}

func TestCCTPSwapAdmin(t *testing.T) {
	parsed, err := CCTPSwapAdmin()
	require.NoError(t, err)

	data, err := parsed.Pack(MethodSetExecutor, common.HexToAddress("0xd3B130ad6Fed9276E1fd486bCa4B9a428E670d6c"))
	require.NoError(t, err)
	assert.Len(t, data, 4+32)
}
