package youtube

import "strconv"

// resolvedSchedule 定时/首映三态解析结果
// 校验已排除"首映字段只设置一半"的非法状态，可达状态只剩三种
type resolvedSchedule struct {
	Privacy             Privacy
	ScheduledPublishing *apiUpdateMetadataScheduledPublishing
	Premiere            *apiUpdateMetadataPremiere
	PremiereIntro       *apiUpdateMetadataPremiereIntro
}

// resolveSchedule 解析定时发布与首映状态，不修改调用方的 metadata
func resolveSchedule(m *Metadata) resolvedSchedule {
	switch {
	case m.PremiereCountdownDuration != nil && m.PremiereTheme != nil:
		// 首映：发首映指令，不发普通定时指令，可见性强制 PUBLIC
		ts := strconv.FormatInt(roundedEpoch(m.ScheduledUpload), 10)
		return resolvedSchedule{
			Privacy: PrivacyPublic,
			Premiere: &apiUpdateMetadataPremiere{
				ScheduledStartTimeSec: ts,
				Operation:             "MDE_PREMIERE_UPDATE_OPERATION_SCHEDULE",
			},
			PremiereIntro: &apiUpdateMetadataPremiereIntro{
				CountdownDuration: apiUpdateMetadataCountdown{Seconds: string(*m.PremiereCountdownDuration)},
				Theme:             string(*m.PremiereTheme),
				Operation:         "MDE_PREMIERE_INTRO_UPDATE_OPERATION_SET",
			},
		}
	case m.ScheduledUpload != nil:
		// 定时发布：发布前保持私有，到点转 PUBLIC
		ts := strconv.FormatInt(roundedEpoch(m.ScheduledUpload), 10)
		return resolvedSchedule{
			Privacy: PrivacyPrivate,
			ScheduledPublishing: &apiUpdateMetadataScheduledPublishing{
				Set: apiUpdateMetadataSchedule{TimeSec: ts, Privacy: "PUBLIC"},
			},
		}
	default:
		// 立即发布：可见性原样透传
		return resolvedSchedule{Privacy: m.Privacy}
	}
}

// roundedEpoch 取整到秒的时间戳，亚秒部分四舍五入
func roundedEpoch(t *Timestamp) int64 {
	ms := t.UnixMilli()
	sec := ms / 1000
	if ms%1000 >= 500 {
		sec++
	}
	return sec
}
