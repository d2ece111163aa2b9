package signaling

import (
	"encoding/gob"
	"log"
	"net"

	"github.com/google/uuid"
)

// PeerDiscovered is invoked once per successful handshake, in either
// role (server accepting a dial-in, or client dialing out). It must
// register the remote as a peer and return the opaque consumer context
// the transport layer should attach to that SSRC.
type PeerDiscovered func(rec Record) (consumerContext any)

// Server accepts signaling connections, replies with the local
// identity record, and reports every discovered peer through onPeer.
// Each connection carries exactly one request/response exchange,
// gob-encoded (see DESIGN.md for the wire-format rationale).
type Server struct {
	listener net.Listener
	identity Identity
	specs    *Specifications
	onPeer   PeerDiscovered
}

// Identity is the local stream's fixed identity, announced in every
// handshake.
type Identity struct {
	MediaType  MediaType
	RTPAddress string
	SSRC       uint32
}

// Listen opens a TCP listener on addr (use ":0" for an ephemeral port)
// and returns a Server ready to Serve.
func Listen(addr string, identity Identity, specs *Specifications, onPeer PeerDiscovered) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{listener: ln, identity: identity, specs: specs, onPeer: onPeer}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until the listener is closed. Intended to
// run in its own goroutine.
func (s *Server) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var req Record
	if err := gob.NewDecoder(conn).Decode(&req); err != nil {
		log.Printf("signaling: decode request from %s failed: %v", conn.RemoteAddr(), err)
		return
	}

	log.Printf("signaling: request %s from %s", req.HandshakeID, conn.RemoteAddr())

	sps, pps := s.specs.Current()
	resp := Record{
		HandshakeID:            uuid.New().String(),
		MediaType:              s.identity.MediaType,
		SignalingAddress:       s.Addr(),
		RTPAddress:             s.identity.RTPAddress,
		SSRC:                   s.identity.SSRC,
		SPS:                    sps,
		PPS:                    pps,
		PeerSignalingAddresses: s.specs.KnownAddresses(),
	}

	if err := gob.NewEncoder(conn).Encode(resp); err != nil {
		log.Printf("signaling: encode response to %s failed: %v", conn.RemoteAddr(), err)
		return
	}

	s.onPeer(req)
	s.specs.AddKnownAddress(req.SignalingAddress)
}
