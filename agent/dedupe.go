package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"adcraft/model"
	"adcraft/tools"
)

type duplicateReply struct {
	Error             string   `json:"error"`
	Missing           []string `json:"missing"`
	ExistingVersionID string   `json:"existingVersionId"`
	Suggestion        string   `json:"suggestion"`
}

// suppressDuplicates splits calls into the ones to execute and the
// draft creations whose stream already has a draft in this run. The
// returned mask marks dropped positions.
func suppressDuplicates(calls []model.ToolCall, drafts Drafts) (kept []model.ToolCall, dropped []bool) {
	dropped = make([]bool, len(calls))
	for i, call := range calls {
		if stream, ok := tools.DraftStream(call.Name); ok && drafts.Has(stream) {
			dropped[i] = true
			continue
		}
		kept = append(kept, call)
	}
	return kept, dropped
}

// duplicateFeedback is the tool reply sent for a suppressed draft creation.
// It names exactly the drafts that are still missing.
func duplicateFeedback(call model.ToolCall, drafts Drafts) string {
	stream, _ := tools.DraftStream(call.Name)
	missing := drafts.Missing()

	reply := duplicateReply{
		Missing:           missing,
		ExistingVersionID: drafts.Get(stream),
	}
	if missing == nil {
		reply.Missing = []string{}
	}
	if len(missing) == 0 {
		reply.Error = fmt.Sprintf("%s draft already exists (%s); all drafts are complete", stream, reply.ExistingVersionID)
		reply.Suggestion = "Do not call any more tools. Summarize the ad for the user."
	} else {
		reply.Error = fmt.Sprintf("%s draft already exists (%s); still need: [%s]",
			stream, reply.ExistingVersionID, strings.Join(missing, ", "))
		reply.Suggestion = fmt.Sprintf("Call %s now.", strings.Join(missing, " and "))
	}

	data, _ := json.Marshal(reply)
	return string(data)
}
