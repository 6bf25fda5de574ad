package split

import (
	"reflect"
	"testing"

	"github.com/rushteam/evalkit/core"
)

func TestLeaveLatestOut(t *testing.T) {
	records := []Record{
		// user 0：5 条交互，最近 2 条（floor(5*0.4)=2）留出
		{UserID: 0, ItemID: 0, Timestamp: 100},
		{UserID: 0, ItemID: 1, Timestamp: 200},
		{UserID: 0, ItemID: 2, Timestamp: 300},
		{UserID: 0, ItemID: 3, Timestamp: 400},
		{UserID: 0, ItemID: 4, Timestamp: 500},
		// user 1：2 条交互，floor(2*0.4)=0，全部进训练集
		{UserID: 1, ItemID: 0, Timestamp: 150},
		{UserID: 1, ItemID: 1, Timestamp: 250},
	}

	train, test, err := LeaveLatestOut(records, 2, 5, 0.4)
	if err != nil {
		t.Fatalf("LeaveLatestOut: %v", err)
	}

	if got, want := train.ItemsOf(0), []int64{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("train items of user 0 = %v, want %v", got, want)
	}
	if got, want := test.ItemsOf(0), []int64{3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("test items of user 0 = %v, want %v", got, want)
	}
	if got, want := train.ItemsOf(1), []int64{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("train items of user 1 = %v, want %v", got, want)
	}
	if test.Count(1) != 0 {
		t.Errorf("test items of user 1 = %v, want none", test.ItemsOf(1))
	}
}

func TestLeaveLatestOutDisjoint(t *testing.T) {
	// 同一 (user, item) 新旧两次交互：旧的进训练集，新的必须被丢弃
	records := []Record{
		{UserID: 0, ItemID: 0, Timestamp: 100},
		{UserID: 0, ItemID: 1, Timestamp: 200},
		{UserID: 0, ItemID: 2, Timestamp: 300},
		{UserID: 0, ItemID: 0, Timestamp: 400},
	}
	train, test, err := LeaveLatestOut(records, 1, 3, 0.25)
	if err != nil {
		t.Fatalf("LeaveLatestOut: %v", err)
	}

	for _, itemID := range test.ItemsOf(0) {
		if train.Contains(0, itemID) {
			t.Errorf("item %d in both train and test", itemID)
		}
	}
	if test.Count(0) != 0 {
		t.Errorf("test items = %v, want none (latest record repeats a train item)", test.ItemsOf(0))
	}
}

func TestLeaveLatestOutValidation(t *testing.T) {
	records := []Record{{UserID: 0, ItemID: 0, Timestamp: 1}}

	for _, fraction := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := LeaveLatestOut(records, 1, 1, fraction); !core.IsInvalidInput(err) {
			t.Errorf("fraction=%v error = %v, want INVALID_INPUT", fraction, err)
		}
	}

	// 越界记录在构造时报错
	bad := []Record{
		{UserID: 0, ItemID: 0, Timestamp: 1},
		{UserID: 0, ItemID: 9, Timestamp: 2},
		{UserID: 0, ItemID: 1, Timestamp: 3},
		{UserID: 0, ItemID: 2, Timestamp: 4},
	}
	if _, _, err := LeaveLatestOut(bad, 1, 3, 0.25); !core.IsInvalidInput(err) {
		t.Errorf("out-of-range record error = %v, want INVALID_INPUT", err)
	}
}

func TestLeaveLatestOutTimestampTies(t *testing.T) {
	// 同一时刻的交互按物品 ID 升序排序，切分结果可复现
	records := []Record{
		{UserID: 0, ItemID: 2, Timestamp: 100},
		{UserID: 0, ItemID: 0, Timestamp: 100},
		{UserID: 0, ItemID: 1, Timestamp: 100},
		{UserID: 0, ItemID: 3, Timestamp: 100},
	}
	train, test, err := LeaveLatestOut(records, 1, 4, 0.5)
	if err != nil {
		t.Fatalf("LeaveLatestOut: %v", err)
	}
	if got, want := train.ItemsOf(0), []int64{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("train items = %v, want %v", got, want)
	}
	if got, want := test.ItemsOf(0), []int64{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("test items = %v, want %v", got, want)
	}
}
