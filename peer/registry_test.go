package peer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func udpAddr(t *testing.T, s string) net.Addr {
	t.Helper()
	a, err := net.ResolveUDPAddr("udp", s)
	require.NoError(t, err)
	return a
}

func TestAddPeerRejectsDuplicateSSRC(t *testing.T) {
	r := NewRegistry(1)

	ok := r.AddPeer(42, udpAddr(t, "127.0.0.1:5000"), "ctx-a")
	require.True(t, ok)

	ok = r.AddPeer(42, udpAddr(t, "127.0.0.1:6000"), "ctx-b")
	require.False(t, ok)

	ctx, found := r.ConsumerContext(42)
	require.True(t, found)
	require.Equal(t, "ctx-a", ctx)
}

func TestAddrsReflectsAllRegisteredPeers(t *testing.T) {
	r := NewRegistry(1)
	r.AddPeer(1, udpAddr(t, "127.0.0.1:5001"), nil)
	r.AddPeer(2, udpAddr(t, "127.0.0.1:5002"), nil)

	addrs := r.Addrs()
	require.Len(t, addrs, 2)
}

func TestRemovePeerClearsBothMaps(t *testing.T) {
	r := NewRegistry(1)
	r.AddPeer(7, udpAddr(t, "127.0.0.1:5001"), nil)
	r.RemovePeer(7)

	_, ok := r.Get(7)
	require.False(t, ok)
	require.Empty(t, r.Addrs())
}

func TestInsertAndPopNodeRoundTrip(t *testing.T) {
	r := NewRegistry(1)
	r.AddPeer(9, udpAddr(t, "127.0.0.1:5001"), nil)

	_, ok := r.Insert(9, 1000, 1000, 5, []byte("frame-data"))
	require.True(t, ok)

	node, ok := r.PopNode(9)
	require.True(t, ok)
	require.Equal(t, uint32(1000), node.RTPTimestamp)
	require.Len(t, node.CodedData, 1)
	require.Equal(t, []byte("frame-data"), node.CodedData[0].Data)
}

func TestInsertUnknownPeerFails(t *testing.T) {
	r := NewRegistry(1)
	_, ok := r.Insert(999, 0, 0, 0, nil)
	require.False(t, ok)
}

func TestPushOffsetTracksWindowMinimum(t *testing.T) {
	r := NewRegistry(1)
	r.AddPeer(3, udpAddr(t, "127.0.0.1:5001"), nil)

	min, ok := r.PushOffset(3, 10)
	require.True(t, ok)
	require.Equal(t, uint32(10), min)

	min, ok = r.PushOffset(3, 4)
	require.True(t, ok)
	require.Equal(t, uint32(4), min)
}
