package signaling

import (
	"encoding/gob"
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/stran9682/video-conferencing/internal/liberrors"
)

// Dial performs the bootstrap handshake against bootstrapAddr (the
// first known peer's signaling address) and then dials every peer
// address that peer reports knowing about and that specs does not
// already list as known, one level deep: the
// addresses a third-level peer might itself report are not followed
// further. An empty bootstrapAddr means "first peer in the session,
// nothing to connect to yet" and is a no-op. localSignalingAddr is
// this process's own signaling listener address, announced so the
// remote can dial back.
func Dial(bootstrapAddr, localSignalingAddr string, identity Identity, specs *Specifications, onPeer PeerDiscovered) error {
	if bootstrapAddr == "" {
		return nil
	}

	resp, err := handshake(bootstrapAddr, localSignalingAddr, identity, specs)
	if err != nil {
		return err
	}

	onPeer(resp)
	specs.AddKnownAddress(resp.SignalingAddress)

	for _, addr := range resp.PeerSignalingAddresses {
		if !specs.AddKnownAddress(addr) {
			continue
		}

		peerResp, err := handshake(addr, localSignalingAddr, identity, specs)
		if err != nil {
			log.Printf("signaling: transitive dial to %s failed: %v", addr, err)
			continue
		}

		onPeer(peerResp)
	}

	return nil
}

// handshake opens one TCP connection to addr, sends the local
// identity record, and returns the remote's reply.
func handshake(addr, localSignalingAddr string, identity Identity, specs *Specifications) (Record, error) {
	sps, pps := specs.Current()
	if identity.MediaType == MediaVideo && len(sps) == 0 && len(pps) == 0 {
		return Record{}, liberrors.ErrMissingSpecs{}
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return Record{}, err
	}
	defer conn.Close()

	req := Record{
		HandshakeID:      uuid.New().String(),
		MediaType:        identity.MediaType,
		SignalingAddress: localSignalingAddr,
		RTPAddress:       identity.RTPAddress,
		SSRC:             identity.SSRC,
		SPS:              sps,
		PPS:              pps,
	}

	if err := gob.NewEncoder(conn).Encode(req); err != nil {
		return Record{}, err
	}

	var resp Record
	if err := gob.NewDecoder(conn).Decode(&resp); err != nil {
		return Record{}, err
	}

	return resp, nil
}
