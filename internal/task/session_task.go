package task

import (
	"log"

	"github.com/robfig/cron/v3"

	"sublet_hub_v1_202608/internal/service"
)

// ==================== 会话清扫任务 ====================

// SessionSweepTask 定时清理被放弃的向导会话
// 缓存本身是懒删除，用户中途离开后的会话（连同暂存的媒体字节）要靠这里回收
type SessionSweepTask struct {
	wizard *service.WizardService
	cron   *cron.Cron
	spec   string
}

// NewSessionSweepTask 创建会话清扫任务
func NewSessionSweepTask(wizard *service.WizardService) *SessionSweepTask {
	return &SessionSweepTask{
		wizard: wizard,
		spec:   "@every 10m",
	}
}

// Start 启动定时任务
func (t *SessionSweepTask) Start() error {
	t.cron = cron.New()
	if _, err := t.cron.AddFunc(t.spec, t.RunOnce); err != nil {
		return err
	}
	t.cron.Start()
	log.Printf("[task] 会话清扫任务已启动 (%s)", t.spec)
	return nil
}

// Stop 停止定时任务
func (t *SessionSweepTask) Stop() {
	if t.cron != nil {
		t.cron.Stop()
	}
}

// RunOnce 执行一次清扫
func (t *SessionSweepTask) RunOnce() {
	if n := t.wizard.SweepSessions(); n > 0 {
		log.Printf("[task] 清理过期向导会话 %d 个", n)
	}
}
