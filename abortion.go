package facade

import (
	"github.com/rs/zerolog/log"

	"github.com/avos-io/facade/face"
)

// Abortion describes why an RPC ended without a normal response.
type Abortion int

const (
	Cancelled Abortion = iota + 1
	Expired
	NetworkFailure
	ServicedFailure
	ServicerFailure
)

func (a Abortion) String() string {
	switch a {
	case Cancelled:
		return "CANCELLED"
	case Expired:
		return "EXPIRED"
	case NetworkFailure:
		return "NETWORK_FAILURE"
	case ServicedFailure:
		return "SERVICED_FAILURE"
	case ServicerFailure:
		return "SERVICER_FAILURE"
	default:
		return "UNKNOWN"
	}
}

var abortionsByFace = map[face.Abortion]Abortion{
	face.AbortionCancelled:       Cancelled,
	face.AbortionExpired:         Expired,
	face.AbortionNetworkFailure:  NetworkFailure,
	face.AbortionServicedFailure: ServicedFailure,
	face.AbortionServicerFailure: ServicerFailure,
}

// abortionFromFace maps an implementation-facing abortion to its public
// counterpart. The two enumerations are isomorphic, so an unmapped value is
// a programming error.
func abortionFromFace(a face.Abortion) Abortion {
	pub, ok := abortionsByFace[a]
	if !ok {
		log.Panic().Int("abortion", int(a)).Msg("abortionFromFace: unmapped abortion")
	}
	return pub
}
