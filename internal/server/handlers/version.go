package handlers

import (
	"net/http"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/version"
)

const serviceName = "ledger-server"

type VersionResponse struct {
	Service   string `json:"service" example:"ledger-server"`
	Version   string `json:"version" example:"v1.0.0"`
	BuildDate string `json:"build_date" example:"2024-05-01T10:00:00Z"`
	GitCommit string `json:"git_commit,omitempty" example:"abc1234"`
}

// HandleVersion godoc
//
//	@Summary		Build information
//	@Description	Version, build date and commit of the running server
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func HandleVersion(v version.Info) http.HandlerFunc {
	response := VersionResponse{
		Service:   serviceName,
		Version:   v.Version,
		BuildDate: v.BuildDate,
		GitCommit: v.GitCommit,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithJSONPayload(w, http.StatusOK, response)
	}
}
