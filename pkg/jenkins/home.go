package jenkins

// Hudson is the home page of the controller, listing the top-level jobs
// and the configured views.
type Hudson struct {
	Class           string      `json:"_class"`
	Mode            string      `json:"mode"`
	NodeDescription string      `json:"nodeDescription"`
	NodeName        string      `json:"nodeName"`
	NumExecutors    int         `json:"numExecutors"`
	Description     string      `json:"description"`
	Jobs            []ShortJob  `json:"jobs"`
	Views           []ShortView `json:"views"`
	PrimaryView     *ShortView  `json:"primaryView"`
	URL             string      `json:"url"`
	QuietingDown    bool        `json:"quietingDown"`
	SlaveAgentPort  int         `json:"slaveAgentPort"`
	UseCrumbs       bool        `json:"useCrumbs"`
	UseSecurity     bool        `json:"useSecurity"`
}
