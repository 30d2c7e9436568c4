package peers

import "encoding/json"

// Announce is the wire projection of a peer identity. It is what gets
// multicast to the group and POSTed on registration. The sender address
// is deliberately absent: it is taken from the observed packet source.
type Announce struct {
	Alias       string `json:"alias"`
	Version     string `json:"version"`
	DeviceModel string `json:"deviceModel,omitempty"`
	DeviceType  string `json:"deviceType,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Port        int    `json:"port"`
	Protocol    string `json:"protocol"`
}

// Peer is a node as known locally: the announced identity plus the
// address it was observed from. Fingerprint is the sole identity key.
type Peer struct {
	Fingerprint string `json:"fingerprint"`
	Alias       string `json:"alias"`
	Version     string `json:"version"`
	DeviceModel string `json:"device_model,omitempty"`
	DeviceType  string `json:"device_type,omitempty"`
	Address     string `json:"address"`
	Port        int    `json:"port"`
	Protocol    string `json:"protocol"`
}

func FromAnnounce(a Announce, address string) Peer {
	return Peer{
		Fingerprint: a.Fingerprint,
		Alias:       a.Alias,
		Version:     a.Version,
		DeviceModel: a.DeviceModel,
		DeviceType:  a.DeviceType,
		Address:     address,
		Port:        a.Port,
		Protocol:    a.Protocol,
	}
}

func (p Peer) ToAnnounce() Announce {
	return Announce{
		Alias:       p.Alias,
		Version:     p.Version,
		DeviceModel: p.DeviceModel,
		DeviceType:  p.DeviceType,
		Fingerprint: p.Fingerprint,
		Port:        p.Port,
		Protocol:    p.Protocol,
	}
}

func EncodeAnnounce(a Announce) ([]byte, error) {
	return json.Marshal(a)
}

func DecodeAnnounce(data []byte) (Announce, error) {
	var a Announce
	if err := json.Unmarshal(data, &a); err != nil {
		return Announce{}, err
	}
	return a, nil
}
