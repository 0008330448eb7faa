package logger

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron"
)

// Rotation crontabs and retention presets
const (
	LogRotatorCronDaily   = "0 0 0 * * ?"
	LogRotatorCronWeekly  = "0 0 0 ? * 1"
	LogRotatorCronMonthly = "0 0 0 1 * ?"

	LogRotatorExpiresWeekly  = 7
	LogRotatorExpiresMonthly = 30
	LogRotatorExpiresSeason  = 90
	LogRotatorExpiresYearly  = 365
)

// Variables
var (
	LogRotatorCrontab     string = LogRotatorCronDaily
	LogRotatorExpiresDays int    = LogRotatorExpiresMonthly
)

var rotatedDatePattern = regexp.MustCompile(`-(\d{4}-\d{2}(?:-\d{2})?)(?:-\d+)?$`)

var rotator = &logRotator{}

// logRotator switches the log file on a cron schedule and removes the rotated
// files older than the retention window
type logRotator struct {
	basePath string
	current  *os.File
	timer    *cron.Cron
}

func (r *logRotator) open(basePath string) (*os.File, error) {
	r.basePath = basePath
	file, _, err := r.generate()
	if nil != err {
		return nil, err
	}
	r.current = file
	return file, nil
}

// generate opens the dated log file of the moment, reusing the current one
// while the date endfix has not moved yet
func (r *logRotator) generate() (*os.File, string, error) {
	ext := path.Ext(r.basePath)
	now := time.Now()
	var endfix string
	switch LogRotatorCrontab {
	case LogRotatorCronDaily, LogRotatorCronWeekly:
		endfix = now.Format("2006-01-02")
		break
	case LogRotatorCronMonthly:
		endfix = now.Format("2006-01")
		break
	default:
		endfix = now.Format("2006-01-02-150405")
		break
	}
	logFileName := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(r.basePath, ext), endfix, ext)
	if nil != r.current && r.current.Name() == logFileName {
		return r.current, endfix, nil
	}
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if nil != err {
		return nil, endfix, err
	}
	return file, endfix, nil
}

func (r *logRotator) schedule() {
	if nil != r.timer {
		return
	}
	r.timer = cron.New()
	err := r.timer.AddFunc(LogRotatorCrontab, r.rotate)
	if nil != err {
		Error.Printf("add log rotator timer failed with error:%v", err)
	} else {
		r.timer.Start()
	}
	if 0 < LogRotatorExpiresDays {
		r.cleanExpired()
	}
}

func (r *logRotator) rotate() {
	file, endfix, err := r.generate()
	if nil != err {
		Error.Printf("rotate log file:%s failed with error:%v", r.basePath, err)
		return
	}
	if file == r.current {
		return
	}
	rebuildLoggers(file)
	if nil != r.current {
		r.current.Close()
	}
	r.current = file
	Info.Printf("log rotated at %s", endfix)

	if 0 < LogRotatorExpiresDays {
		r.cleanExpired()
	}
}

func (r *logRotator) cleanExpired() {
	logdir := path.Dir(r.basePath)
	files, err := ioutil.ReadDir(logdir)
	if nil != err {
		return
	}
	expiresDate := time.Now().Add(-(time.Hour * 24 * time.Duration(LogRotatorExpiresDays)))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		fname := path.Base(f.Name())
		fname = strings.TrimSuffix(fname, path.Ext(fname))
		matches := rotatedDatePattern.FindAllStringSubmatch(fname, -1)
		if 0 == len(matches) {
			continue
		}
		datestr := matches[0][1]
		if len(datestr) < 8 {
			// monthly endfix, compare by the first day of the month
			datestr = datestr + "-01"
		}
		createDate, err := time.Parse("2006-01-02", datestr)
		if nil == err && createDate.Before(expiresDate) {
			delFileName := path.Join(logdir, f.Name())
			Info.Printf("cleaning expired log file:%s", delFileName)
			os.Remove(delFileName)
		}
	}
}
