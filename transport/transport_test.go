package transport

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stran9682/video-conferencing/framequeue"
	"github.com/stran9682/video-conferencing/peer"
	"github.com/stran9682/video-conferencing/rtph264"
	"github.com/stran9682/video-conferencing/rtpsession"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	return conn
}

func TestSenderReceiverRoundTripSingleFrame(t *testing.T) {
	senderConn := listenLoopback(t)
	defer senderConn.Close()
	receiverConn := listenLoopback(t)
	defer receiverConn.Close()

	registry := peer.NewRegistry(1)
	ok := registry.AddPeer(2, receiverConn.LocalAddr(), "consumer-A")
	require.True(t, ok)

	sess := rtpsession.NewWithSSRC(1, 3000)
	encoder := rtph264.NewEncoder(sess)
	queue := framequeue.New(4)
	sender := NewSender(senderConn, encoder, registry, queue, nil)

	receiverRegistry := peer.NewRegistry(2)
	// the remote's SSRC (1, the sender side) must be known to the
	// receiver for offsets/inserts to be accepted.
	receiverRegistry.AddPeer(1, senderConn.LocalAddr(), "consumer-B")

	delivered := make(chan []byte, 1)
	var deliverOnce sync.Once
	receiver := NewReceiver(receiverConn, receiverRegistry, func(ctx any, avcc []byte) {
		deliverOnce.Do(func() { delivered <- avcc })
	}, nil)

	go sender.Run()
	go receiver.Run()
	defer queue.Close()

	avcc := buildAVCC([]byte{0x67, 0x01, 0x02, 0x03})
	released := make(chan struct{}, 1)
	ok = queue.Push(framequeue.EncodedFrame{
		Data: avcc,
		Release: func() {
			released <- struct{}{}
		},
	})
	require.True(t, ok)

	select {
	case got := <-delivered:
		require.Equal(t, avcc, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reassembled frame")
	}

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for release callback")
	}
}

// TestSenderReceiverRoundTripMultiPacketFrame exercises a NALU large
// enough to be split into multiple FU-A fragments, so the access unit
// spans several datagrams and several Receiver.Run read-buffer reuses
// before its marker bit arrives. This catches payload aliasing: if a
// fragment's bytes aren't copied out of the reused read buffer before
// being stored, later fragments silently clobber earlier ones.
func TestSenderReceiverRoundTripMultiPacketFrame(t *testing.T) {
	senderConn := listenLoopback(t)
	defer senderConn.Close()
	receiverConn := listenLoopback(t)
	defer receiverConn.Close()

	registry := peer.NewRegistry(1)
	ok := registry.AddPeer(2, receiverConn.LocalAddr(), "consumer-A")
	require.True(t, ok)

	sess := rtpsession.NewWithSSRC(1, 3000)
	encoder := rtph264.NewEncoder(sess)
	queue := framequeue.New(4)
	sender := NewSender(senderConn, encoder, registry, queue, nil)

	receiverRegistry := peer.NewRegistry(2)
	receiverRegistry.AddPeer(1, senderConn.LocalAddr(), "consumer-B")

	delivered := make(chan []byte, 1)
	var deliverOnce sync.Once
	receiver := NewReceiver(receiverConn, receiverRegistry, func(ctx any, avcc []byte) {
		deliverOnce.Do(func() { delivered <- avcc })
	}, nil)

	go sender.Run()
	go receiver.Run()
	defer queue.Close()

	// a NALU well over config.MaxFragmentSize forces FU-A fragmentation
	// across several RTP datagrams for this one access unit.
	nalu := make([]byte, 2500)
	nalu[0] = 0x41
	for i := 1; i < len(nalu); i++ {
		nalu[i] = byte(i)
	}
	avcc := buildAVCC(nalu)

	released := make(chan struct{}, 1)
	ok = queue.Push(framequeue.EncodedFrame{
		Data: avcc,
		Release: func() {
			released <- struct{}{}
		},
	})
	require.True(t, ok)

	select {
	case got := <-delivered:
		require.Equal(t, avcc, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reassembled frame")
	}

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for release callback")
	}
}

func buildAVCC(nalu []byte) []byte {
	length := len(nalu)
	buf := make([]byte, 4+length)
	buf[0] = byte(length >> 24)
	buf[1] = byte(length >> 16)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[4:], nalu)
	return buf
}
