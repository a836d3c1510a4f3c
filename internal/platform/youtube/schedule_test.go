package youtube

import (
	"strconv"
	"testing"
	"time"
)

func TestResolveSchedule(t *testing.T) {
	duration := PremiereDuration("60")
	theme := PremiereTheme("VIDEO_PREMIERE_INTRO_THEME_BRIGHT")
	when := &Timestamp{Time: time.Date(2026, 12, 25, 17, 0, 0, 0, time.UTC)}
	wantSec := strconv.FormatInt(when.Unix(), 10)

	t.Run("premiere", func(t *testing.T) {
		m := &Metadata{
			Title:                     "ok",
			Privacy:                   PrivacyUnlisted,
			ScheduledUpload:           when,
			PremiereCountdownDuration: &duration,
			PremiereTheme:             &theme,
		}
		sched := resolveSchedule(m)

		if sched.Privacy != PrivacyPublic {
			t.Errorf("首映可见性应强制 PUBLIC，实际: %q", sched.Privacy)
		}
		if sched.ScheduledPublishing != nil {
			t.Error("首映不应同时携带普通定时指令")
		}
		if sched.Premiere == nil || sched.Premiere.ScheduledStartTimeSec != wantSec {
			t.Errorf("首映时间不符: %+v", sched.Premiere)
		}
		if sched.Premiere.Operation != "MDE_PREMIERE_UPDATE_OPERATION_SCHEDULE" {
			t.Errorf("首映操作符不符: %q", sched.Premiere.Operation)
		}
		if sched.PremiereIntro == nil {
			t.Fatal("应携带首映倒计时指令")
		}
		if sched.PremiereIntro.CountdownDuration.Seconds != "60" {
			t.Errorf("倒计时秒数不符: %q", sched.PremiereIntro.CountdownDuration.Seconds)
		}
		if sched.PremiereIntro.Theme != "VIDEO_PREMIERE_INTRO_THEME_BRIGHT" {
			t.Errorf("倒计时主题不符: %q", sched.PremiereIntro.Theme)
		}
	})

	t.Run("scheduled_only", func(t *testing.T) {
		m := &Metadata{Title: "ok", Privacy: PrivacyPublic, ScheduledUpload: when}
		sched := resolveSchedule(m)

		if sched.Privacy != PrivacyPrivate {
			t.Errorf("定时发布前可见性应为 PRIVATE，实际: %q", sched.Privacy)
		}
		if sched.Premiere != nil || sched.PremiereIntro != nil {
			t.Error("普通定时不应携带首映指令")
		}
		if sched.ScheduledPublishing == nil {
			t.Fatal("应携带定时发布指令")
		}
		if sched.ScheduledPublishing.Set.TimeSec != wantSec {
			t.Errorf("定时时间不符: %q", sched.ScheduledPublishing.Set.TimeSec)
		}
		if sched.ScheduledPublishing.Set.Privacy != "PUBLIC" {
			t.Errorf("到点可见性应为 PUBLIC，实际: %q", sched.ScheduledPublishing.Set.Privacy)
		}
	})

	t.Run("immediate", func(t *testing.T) {
		m := &Metadata{Title: "ok", Privacy: PrivacyUnlisted}
		sched := resolveSchedule(m)

		if sched.Privacy != PrivacyUnlisted {
			t.Errorf("立即发布应透传可见性，实际: %q", sched.Privacy)
		}
		if sched.ScheduledPublishing != nil || sched.Premiere != nil || sched.PremiereIntro != nil {
			t.Error("立即发布不应携带任何定时指令")
		}
	})

	t.Run("does_not_mutate_metadata", func(t *testing.T) {
		m := &Metadata{
			Title:                     "ok",
			Privacy:                   PrivacyUnlisted,
			ScheduledUpload:           when,
			PremiereCountdownDuration: &duration,
			PremiereTheme:             &theme,
		}
		_ = resolveSchedule(m)
		if m.Privacy != PrivacyUnlisted {
			t.Errorf("resolveSchedule 不应修改调用方的 metadata: %q", m.Privacy)
		}
	})
}

func TestRoundedEpoch(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int64
	}{
		{"exact_second", time.Unix(1766682000, 0), 1766682000},
		{"round_down", time.Unix(1766682000, 400*int64(time.Millisecond)), 1766682000},
		{"round_up", time.Unix(1766682000, 500*int64(time.Millisecond)), 1766682001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundedEpoch(&Timestamp{Time: tt.t})
			if got != tt.want {
				t.Errorf("roundedEpoch(%v) = %d, want %d", tt.t, got, tt.want)
			}
		})
	}
}
