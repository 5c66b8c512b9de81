package facade

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avos-io/facade/face"
)

func TestAbortionCodeMap(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		is := require.New(t)

		is.Len(abortionsByFace, len(face.Abortions))

		// Every public abortion is the image of exactly one face abortion.
		faceByAbortion := make(map[Abortion]face.Abortion, len(face.Abortions))
		for _, f := range face.Abortions {
			a := abortionFromFace(f)
			_, dup := faceByAbortion[a]
			is.False(dup, a.String())
			faceByAbortion[a] = f
		}
		for _, a := range []Abortion{Cancelled, Expired, NetworkFailure, ServicedFailure, ServicerFailure} {
			f, ok := faceByAbortion[a]
			is.True(ok, a.String())
			is.Equal(a, abortionFromFace(f), a.String())
		}
	})

	t.Run("Pairs", func(t *testing.T) {
		is := require.New(t)

		is.Equal(Cancelled, abortionFromFace(face.AbortionCancelled))
		is.Equal(Expired, abortionFromFace(face.AbortionExpired))
		is.Equal(NetworkFailure, abortionFromFace(face.AbortionNetworkFailure))
		is.Equal(ServicedFailure, abortionFromFace(face.AbortionServicedFailure))
		is.Equal(ServicerFailure, abortionFromFace(face.AbortionServicerFailure))
	})

	t.Run("Unmapped", func(t *testing.T) {
		is := require.New(t)

		is.Panics(func() { abortionFromFace(face.Abortion(42)) })
	})
}
