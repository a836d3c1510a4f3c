package youtube

// Studio 私有接口的请求结构
// 可选片段统一用指针字段 + omitempty：要么整体出现（只填已设置的子字段），要么整体省略，不会出现 null

// ========== 公共上下文 ==========

type apiClient struct {
	ClientName         int    `json:"clientName"`
	ClientVersion      string `json:"clientVersion"`
	ExperimentsToken   string `json:"experimentsToken"`
	GL                 string `json:"gl"`
	HL                 string `json:"hl"`
	UTCOffsetMinutes   int    `json:"utcOffsetMinutes"`
	UserInterfaceTheme string `json:"userInterfaceTheme"`
	ScreenWidthPoints  int    `json:"screenWidthPoints"`
	ScreenHeightPoints int    `json:"screenHeightPoints"`
	ScreenPixelDensity int    `json:"screenPixelDensity"`
	ScreenDensityFloat int    `json:"screenDensityFloat"`
}

func defaultAPIClient() apiClient {
	return apiClient{
		ClientName:         62,
		ClientVersion:      "1.20231215.01.00",
		GL:                 "US",
		HL:                 "en",
		UTCOffsetMinutes:   -300,
		UserInterfaceTheme: "USER_INTERFACE_THEME_DARK",
		ScreenWidthPoints:  1920,
		ScreenHeightPoints: 529,
		ScreenPixelDensity: 1,
		ScreenDensityFloat: 1,
	}
}

type apiSessionInfo struct {
	Token string `json:"token"`
}

type apiRequest struct {
	InternalExperimentFlags []string       `json:"internalExperimentFlags"`
	ReturnLogEntry          bool           `json:"returnLogEntry"`
	SessionInfo             apiSessionInfo `json:"sessionInfo"`
}

type apiRoleType struct {
	ChannelRoleType string `json:"channelRoleType"`
}

type apiDelegationContext struct {
	ExternalChannelID string      `json:"externalChannelId"`
	RoleType          apiRoleType `json:"roleType"`
}

func newDelegationContext(channelID string) apiDelegationContext {
	return apiDelegationContext{
		ExternalChannelID: channelID,
		RoleType:          apiRoleType{ChannelRoleType: "CREATOR_CHANNEL_ROLE_TYPE_OWNER"},
	}
}

type apiUser struct {
	DelegationContext apiDelegationContext `json:"delegationContext"`
	OnBehalfOfUser    *string              `json:"onBehalfOfUser,omitempty"`
}

type apiContext struct {
	Client  apiClient  `json:"client"`
	Request apiRequest `json:"request"`
	User    apiUser    `json:"user"`
}

func newAPIContext(channelID, sessionToken, delegatedSessionID string) apiContext {
	user := apiUser{DelegationContext: newDelegationContext(channelID)}
	if delegatedSessionID != "" {
		user.OnBehalfOfUser = &delegatedSessionID
	}
	return apiContext{
		Client: defaultAPIClient(),
		Request: apiRequest{
			InternalExperimentFlags: []string{},
			ReturnLogEntry:          true,
			SessionInfo:             apiSessionInfo{Token: sessionToken},
		},
		User: user,
	}
}

// ========== 创建视频 ==========

type apiID struct {
	ID string `json:"id"`
}

type apiScottyResourceID struct {
	ScottyResourceID apiID `json:"scottyResourceId"`
}

type apiMetadataTitle struct {
	NewTitle string `json:"newTitle"`
}

type apiMetadataDescription struct {
	NewDescription string `json:"newDescription"`
	ShouldSegment  bool   `json:"shouldSegment"`
}

type apiMetadataPrivacy struct {
	NewPrivacy string `json:"newPrivacy"`
}

type apiMetadataDraftState struct {
	IsDraft bool `json:"isDraft"`
}

type apiMetadataTags struct {
	NewTags []string `json:"newTags"`
}

type apiInitialMetadata struct {
	Title       apiMetadataTitle       `json:"title"`
	Description apiMetadataDescription `json:"description"`
	Privacy     apiMetadataPrivacy     `json:"privacy"`
	DraftState  apiMetadataDraftState  `json:"draftState"`
	Tags        apiMetadataTags        `json:"tags"`
}

type apiRequestCreateVideo struct {
	ChannelID         string               `json:"channelId"`
	Context           apiContext           `json:"context"`
	DelegationContext apiDelegationContext `json:"delegationContext"`
	FrontendUploadID  string               `json:"frontendUploadId"`
	InitialMetadata   apiInitialMetadata   `json:"initialMetadata"`
	PresumedShort     bool                 `json:"presumedShort"`
	ResourceID        apiScottyResourceID  `json:"resourceId"`
}

func newCreateVideoRequest(s *sessionData, sessionToken string, m *Metadata, scottyResourceID string) apiRequestCreateVideo {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return apiRequestCreateVideo{
		ChannelID:         s.ChannelID,
		Context:           newAPIContext(s.ChannelID, sessionToken, s.DelegatedSessionID),
		DelegationContext: newDelegationContext(s.ChannelID),
		FrontendUploadID:  s.FrontendUploadID,
		InitialMetadata: apiInitialMetadata{
			Title:       apiMetadataTitle{NewTitle: m.Title},
			Description: apiMetadataDescription{NewDescription: m.Description, ShouldSegment: true},
			// 创建时强制私有草稿，真实可见性在 metadata_update 时设置
			Privacy:    apiMetadataPrivacy{NewPrivacy: string(PrivacyPrivate)},
			DraftState: apiMetadataDraftState{IsDraft: true},
			Tags:       apiMetadataTags{NewTags: tags},
		},
		// 平台忽略该字段，满足条件的视频无论如何都会成为 Short
		PresumedShort: false,
		ResourceID:    apiScottyResourceID{ScottyResourceID: apiID{ID: scottyResourceID}},
	}
}

// ========== 播放列表 ==========

type apiListPlaylistsMask struct {
	PlaylistID bool `json:"playlistId"`
	Title      bool `json:"title"`
}

type apiRequestListPlaylists struct {
	ChannelID         string               `json:"channelId"`
	Context           apiContext           `json:"context"`
	DelegationContext apiDelegationContext `json:"delegationContext"`
	Mask              apiListPlaylistsMask `json:"mask"`
	MemberVideoIDs    []string             `json:"memberVideoIds"`
	PageSize          int                  `json:"pageSize"`
}

func newListPlaylistsRequest(s *sessionData, sessionToken string) apiRequestListPlaylists {
	return apiRequestListPlaylists{
		ChannelID:         s.ChannelID,
		Context:           newAPIContext(s.ChannelID, sessionToken, s.DelegatedSessionID),
		DelegationContext: newDelegationContext(s.ChannelID),
		Mask:              apiListPlaylistsMask{PlaylistID: true, Title: true},
		MemberVideoIDs:    []string{},
		PageSize:          500,
	}
}

type apiPlaylistCourseMetadata struct {
	IsCourse bool `json:"isCourse"`
}

type apiPlaylistPodcastMetadata struct {
	IsPodcast bool `json:"isPodcast"`
}

type apiRequestCreatePlaylist struct {
	Context           apiContext                 `json:"context"`
	DelegationContext apiDelegationContext       `json:"delegationContext"`
	Title             string                     `json:"title"`
	Description       string                     `json:"description"`
	PrivacyStatus     string                     `json:"privacyStatus"`
	CourseMetadata    apiPlaylistCourseMetadata  `json:"courseMetadata"`
	PodcastMetadata   apiPlaylistPodcastMetadata `json:"podcastMetadata"`
}

func newCreatePlaylistRequest(s *sessionData, sessionToken string, pl Playlist) apiRequestCreatePlaylist {
	return apiRequestCreatePlaylist{
		Context:           newAPIContext(s.ChannelID, sessionToken, s.DelegatedSessionID),
		DelegationContext: newDelegationContext(s.ChannelID),
		Title:             pl.Title,
		Description:       pl.Description,
		PrivacyStatus:     string(pl.Privacy),
	}
}

// ========== 字幕 ==========

type apiCaptionsFile struct {
	DataURI  string `json:"dataUri"`
	FileName string `json:"fileName"`
}

type apiCaptionsTrackData struct {
	Lang string `json:"lang"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

type apiOperationUpdateCaptions struct {
	CaptionsFile      apiCaptionsFile      `json:"captionsFile"`
	TTSTrackID        apiCaptionsTrackData `json:"ttsTrackId"`
	ContentUpdateTime string               `json:"contentUpdateTime"`
	IsContentEdited   bool                 `json:"isContentEdited"`
	UserIntent        string               `json:"userIntent"`
	Vote              string               `json:"vote"`
}

type apiRequestUpdateCaptions struct {
	ChannelID  string                       `json:"channelId"`
	Context    apiContext                   `json:"context"`
	Operations []apiOperationUpdateCaptions `json:"operations"`
	VideoID    string                       `json:"videoId"`
}

func newUpdateCaptionsRequest(s *sessionData, sessionToken, fileName, dataURI, language, nanoTimestamp string) apiRequestUpdateCaptions {
	return apiRequestUpdateCaptions{
		ChannelID: s.ChannelID,
		Context:   newAPIContext(s.ChannelID, sessionToken, s.DelegatedSessionID),
		Operations: []apiOperationUpdateCaptions{
			{
				CaptionsFile:      apiCaptionsFile{DataURI: dataURI, FileName: fileName},
				TTSTrackID:        apiCaptionsTrackData{Lang: language},
				ContentUpdateTime: nanoTimestamp,
				UserIntent:        "USER_INTENT_EDIT_LATEST_DRAFT",
				Vote:              "VOTE_PUBLISH",
			},
		},
		VideoID: s.EncryptedVideoID,
	}
}

// ========== 元数据更新片段 ==========

type apiUpdateMetadataMadeForKids struct {
	NewMfk    string `json:"newMfk"`
	Operation string `json:"operation"`
}

type apiUpdateMetadataRemoveDraftState struct {
	Operation string `json:"operation"`
}

type apiUpdateMetadataPrivacy struct {
	NewPrivacy string `json:"newPrivacy"`
}

type apiUpdateMetadataCategory struct {
	NewCategoryID int `json:"newCategoryId"`
}

func newCategoryUpdate(c *Category) *apiUpdateMetadataCategory {
	if c == nil {
		return nil
	}
	return &apiUpdateMetadataCategory{NewCategoryID: int(*c)}
}

type apiUpdateMetadataCommentOptions struct {
	NewAllowComments     *bool   `json:"newAllowComments,omitempty"`
	NewAllowCommentsMode *string `json:"newAllowCommentsMode,omitempty"`
	NewCanViewRatings    *bool   `json:"newCanViewRatings,omitempty"`
	NewDefaultSortOrder  *string `json:"newDefaultSortOrder,omitempty"`
}

func newCommentOptionsUpdate(allow *bool, mode *AllowComments, canViewRatings *bool, sortOrder *CommentsSortOrder) *apiUpdateMetadataCommentOptions {
	if allow == nil && mode == nil && canViewRatings == nil && sortOrder == nil {
		return nil
	}
	out := &apiUpdateMetadataCommentOptions{
		NewAllowComments:  allow,
		NewCanViewRatings: canViewRatings,
	}
	if mode != nil {
		s := string(*mode)
		out.NewAllowCommentsMode = &s
	}
	if sortOrder != nil {
		s := string(*sortOrder)
		out.NewDefaultSortOrder = &s
	}
	return out
}

type apiUpdateMetadataDistributionOptions struct {
	NewAllowEmbedding bool `json:"newAllowEmbedding"`
}

func newDistributionOptionsUpdate(allowEmbedding *bool) *apiUpdateMetadataDistributionOptions {
	if allowEmbedding == nil {
		return nil
	}
	return &apiUpdateMetadataDistributionOptions{NewAllowEmbedding: *allowEmbedding}
}

type apiUpdateMetadataLicense struct {
	NewLicenseID string `json:"newLicenseId"`
}

func newLicenseUpdate(l *License) *apiUpdateMetadataLicense {
	if l == nil {
		return nil
	}
	return &apiUpdateMetadataLicense{NewLicenseID: string(*l)}
}

type apiUpdateMetadataPublishingOptions struct {
	NewPostToFeed bool `json:"newPostToFeed"`
}

func newPublishingOptionsUpdate(postToFeed *bool) *apiUpdateMetadataPublishingOptions {
	if postToFeed == nil {
		return nil
	}
	return &apiUpdateMetadataPublishingOptions{NewPostToFeed: *postToFeed}
}

type apiDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type apiUpdateMetadataRecordedDate struct {
	NewRecordedDate apiDate `json:"newRecordedDate"`
	Operation       string  `json:"operation"`
}

func newRecordedDateUpdate(d *Date) *apiUpdateMetadataRecordedDate {
	if d == nil {
		return nil
	}
	return &apiUpdateMetadataRecordedDate{
		NewRecordedDate: apiDate{Day: d.Day, Month: d.Month, Year: d.Year},
		Operation:       "MDE_RECORDED_DATE_UPDATE_OPERATION_SET",
	}
}

type apiUpdateMetadataAudioLanguage struct {
	NewAudioLanguage string `json:"newAudioLanguage"`
}

func newAudioLanguageUpdate(l *Language) *apiUpdateMetadataAudioLanguage {
	if l == nil {
		return nil
	}
	return &apiUpdateMetadataAudioLanguage{NewAudioLanguage: string(*l)}
}

type apiUpdateMetadataAutoChapter struct {
	CreatorOptOut bool `json:"creatorOptOut"`
}

func newAutoChapterUpdate(autoChapter *bool) *apiUpdateMetadataAutoChapter {
	if autoChapter == nil {
		return nil
	}
	return &apiUpdateMetadataAutoChapter{CreatorOptOut: *autoChapter}
}

type apiUpdateMetadataAutoPlaces struct {
	CreatorOptOut bool `json:"creatorOptOut"`
}

func newAutoPlacesUpdate(autoPlaces *bool) *apiUpdateMetadataAutoPlaces {
	if autoPlaces == nil {
		return nil
	}
	return &apiUpdateMetadataAutoPlaces{CreatorOptOut: *autoPlaces}
}

type apiUpdateMetadataAutoLearningConcepts struct {
	AutoConceptsCreatorOptOut bool `json:"autoConceptsCreatorOptOut"`
}

func newAutoConceptsUpdate(autoConcepts *bool) *apiUpdateMetadataAutoLearningConcepts {
	if autoConcepts == nil {
		return nil
	}
	return &apiUpdateMetadataAutoLearningConcepts{AutoConceptsCreatorOptOut: *autoConcepts}
}

type apiUpdateMetadataProductPlacement struct {
	NewHasPaidProductPlacement         *bool `json:"newHasPaidProductPlacement,omitempty"`
	NewShowPaidProductPlacementOverlay *bool `json:"newShowPaidProductPlacementOverlay,omitempty"`
}

func newProductPlacementUpdate(has, showOverlay *bool) *apiUpdateMetadataProductPlacement {
	if has == nil && showOverlay == nil {
		return nil
	}
	return &apiUpdateMetadataProductPlacement{
		NewHasPaidProductPlacement:         has,
		NewShowPaidProductPlacementOverlay: showOverlay,
	}
}

type apiUpdateMetadataRacy struct {
	NewRacy   string `json:"newRacy"`
	Operation string `json:"operation"`
}

// 三值映射：true→限制，false→不限制，缺省→片段整体省略
func newRacyUpdate(restrictedToOver18 *bool) *apiUpdateMetadataRacy {
	if restrictedToOver18 == nil {
		return nil
	}
	token := "MDE_RACY_TYPE_NOT_RESTRICTED"
	if *restrictedToOver18 {
		token = "MDE_RACY_TYPE_RESTRICTED"
	}
	return &apiUpdateMetadataRacy{NewRacy: token, Operation: "MDE_RACY_UPDATE_OPERATION_SET"}
}

func mfkToken(madeForKids bool) string {
	if madeForKids {
		return "MDE_MADE_FOR_KIDS_TYPE_MFK"
	}
	return "MDE_MADE_FOR_KIDS_TYPE_NOT_MFK"
}

type apiImage struct {
	EncryptedScottyResourceID string `json:"encryptedScottyResourceId"`
	Format                    string `json:"format"`
	Name                      string `json:"name"`
}

type apiUpdateMetadataThumbnail struct {
	Image     apiImage `json:"image"`
	Operation string   `json:"operation"`
}

func newThumbnailUpdate(scottyID string, format ThumbnailFormat) *apiUpdateMetadataThumbnail {
	if scottyID == "" {
		return nil
	}
	return &apiUpdateMetadataThumbnail{
		Image: apiImage{
			EncryptedScottyResourceID: scottyID,
			Format:                    string(format),
			Name:                      "CUSTOM_THUMBNAIL_IMAGE_NAME_DEFAULT",
		},
		Operation: "UPLOAD_CUSTOM_THUMBNAIL",
	}
}

type apiUpdateMetadataPlaylists struct {
	AddToPlaylistIDs      []string `json:"addToPlaylistIds"`
	DeleteFromPlaylistIDs []string `json:"deleteFromPlaylistIds"`
}

func newPlaylistsUpdate(playlistIDs []string) *apiUpdateMetadataPlaylists {
	if playlistIDs == nil {
		return nil
	}
	return &apiUpdateMetadataPlaylists{
		AddToPlaylistIDs:      playlistIDs,
		DeleteFromPlaylistIDs: []string{},
	}
}

type apiUpdateMetadataSchedule struct {
	TimeSec string `json:"timeSec"`
	Privacy string `json:"privacy"`
}

type apiUpdateMetadataScheduledPublishing struct {
	Set apiUpdateMetadataSchedule `json:"set"`
}

type apiUpdateMetadataPremiere struct {
	ScheduledStartTimeSec string `json:"scheduledStartTimeSec"`
	Operation             string `json:"operation"`
}

type apiUpdateMetadataCountdown struct {
	Seconds string `json:"seconds"`
}

type apiUpdateMetadataPremiereIntro struct {
	CountdownDuration apiUpdateMetadataCountdown `json:"countdownDuration"`
	Theme             string                     `json:"theme"`
	Operation         string                     `json:"operation"`
}

// ========== 元数据更新 ==========

type apiRequestUpdateMetadata struct {
	Context           apiContext           `json:"context"`
	DelegationContext apiDelegationContext `json:"delegationContext"`
	EncryptedVideoID  string               `json:"encryptedVideoId"`

	// 必发片段
	MadeForKids  apiUpdateMetadataMadeForKids      `json:"madeForKids"`
	DraftState   apiUpdateMetadataRemoveDraftState `json:"draftState"`
	PrivacyState apiUpdateMetadataPrivacy          `json:"privacyState"`

	// 可选片段
	AutoChapter         *apiUpdateMetadataAutoChapter          `json:"autoChapter,omitempty"`
	AutoPlaces          *apiUpdateMetadataAutoPlaces           `json:"autoPlaces,omitempty"`
	LearningConcepts    *apiUpdateMetadataAutoLearningConcepts `json:"learningConcepts,omitempty"`
	ProductPlacement    *apiUpdateMetadataProductPlacement     `json:"productPlacement,omitempty"`
	Racy                *apiUpdateMetadataRacy                 `json:"racy,omitempty"`
	AudioLanguage       *apiUpdateMetadataAudioLanguage        `json:"audioLanguage,omitempty"`
	RecordedDate        *apiUpdateMetadataRecordedDate         `json:"recordedDate,omitempty"`
	Category            *apiUpdateMetadataCategory             `json:"category,omitempty"`
	CommentOptions      *apiUpdateMetadataCommentOptions       `json:"commentOptions,omitempty"`
	DistributionOptions *apiUpdateMetadataDistributionOptions  `json:"distributionOptions,omitempty"`
	License             *apiUpdateMetadataLicense              `json:"license,omitempty"`
	PublishingOptions   *apiUpdateMetadataPublishingOptions    `json:"publishingOptions,omitempty"`
	VideoStill          *apiUpdateMetadataThumbnail            `json:"videoStill,omitempty"`
	AddToPlaylist       *apiUpdateMetadataPlaylists            `json:"addToPlaylist,omitempty"`
	ScheduledPublishing *apiUpdateMetadataScheduledPublishing  `json:"scheduledPublishing,omitempty"`
	Premiere            *apiUpdateMetadataPremiere             `json:"premiere,omitempty"`
	PremiereIntro       *apiUpdateMetadataPremiereIntro        `json:"premiereIntro,omitempty"`
}

func newUpdateMetadataRequest(s *sessionData, sessionToken string, m *Metadata) apiRequestUpdateMetadata {
	sched := resolveSchedule(m)

	return apiRequestUpdateMetadata{
		Context:           newAPIContext(s.ChannelID, sessionToken, s.DelegatedSessionID),
		DelegationContext: newDelegationContext(s.ChannelID),
		EncryptedVideoID:  s.EncryptedVideoID,

		MadeForKids: apiUpdateMetadataMadeForKids{
			NewMfk:    mfkToken(m.MadeForKids),
			Operation: "MDE_MADE_FOR_KIDS_UPDATE_OPERATION_SET",
		},
		DraftState:   apiUpdateMetadataRemoveDraftState{Operation: "MDE_DRAFT_STATE_UPDATE_OPERATION_REMOVE_DRAFT_STATE"},
		PrivacyState: apiUpdateMetadataPrivacy{NewPrivacy: string(sched.Privacy)},

		AutoChapter:         newAutoChapterUpdate(m.AutoChapter),
		AutoPlaces:          newAutoPlacesUpdate(m.AutoPlaces),
		LearningConcepts:    newAutoConceptsUpdate(m.AutoConcepts),
		ProductPlacement:    newProductPlacementUpdate(m.HasProductPlacement, m.ShowProductPlacementOverlay),
		Racy:                newRacyUpdate(m.RestrictedToOver18),
		AudioLanguage:       newAudioLanguageUpdate(m.AudioLanguage),
		RecordedDate:        newRecordedDateUpdate(m.RecordedDate),
		Category:            newCategoryUpdate(m.Category),
		CommentOptions:      newCommentOptionsUpdate(m.AllowComments, m.AllowCommentsMode, m.CanViewRatings, m.CommentsSortOrder),
		DistributionOptions: newDistributionOptionsUpdate(m.AllowEmbedding),
		License:             newLicenseUpdate(m.License),
		PublishingOptions:   newPublishingOptionsUpdate(m.PublishToFeed),
		VideoStill:          newThumbnailUpdate(s.ThumbnailScottyID, s.ThumbnailFormat),
		AddToPlaylist:       newPlaylistsUpdate(m.PlaylistIDs),
		ScheduledPublishing: sched.ScheduledPublishing,
		Premiere:            sched.Premiere,
		PremiereIntro:       sched.PremiereIntro,
	}
}
