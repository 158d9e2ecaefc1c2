package storage

import "fmt"

// Key layout:
//
//	ad:{adId}:meta                     AdMetadata JSON
//	ad:{adId}:conversation             Conversation JSON
//	ad:{adId}:{stream}:versions        ordered list of version ids
//	ad:{adId}:{stream}:v:{versionId}   Version JSON
//	ad:{adId}:{stream}:active          active version id
//	ad:{adId}:{stream}:seq             last issued version number
//	session:{sessionId}:ads            ordered list of ad ids

func metaKey(adID string) string {
	return fmt.Sprintf("ad:%s:meta", adID)
}

func conversationKey(adID string) string {
	return fmt.Sprintf("ad:%s:conversation", adID)
}

func versionsKey(adID string, stream Stream) string {
	return fmt.Sprintf("ad:%s:%s:versions", adID, stream)
}

func versionKey(adID string, stream Stream, versionID string) string {
	return fmt.Sprintf("ad:%s:%s:v:%s", adID, stream, versionID)
}

func activeKey(adID string, stream Stream) string {
	return fmt.Sprintf("ad:%s:%s:active", adID, stream)
}

func seqKey(adID string, stream Stream) string {
	return fmt.Sprintf("ad:%s:%s:seq", adID, stream)
}

func sessionAdsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:ads", sessionID)
}
