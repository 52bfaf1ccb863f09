package repository

// Column headers shared by the spreadsheet tables.
const (
	colEnteredAt      = "วันที่กรอกข้อมูล"
	colBatchID        = "รหัสชุดบันทึก"
	colProjectCode    = "รหัสโครงการวิจัย"
	colARCode         = "ar_code"
	colExpenseCode    = "รหัสค่าใช้จ่าย"
	colCategory       = "หมวดรายจ่าย"
	colItem           = "รายการ"
	colCostType       = "ประเภทค่าใช้จ่าย"
	colAmount         = "จำนวนเงิน"
	colPeriod         = "งวด"
	colFundType       = "ประเภททุน"
	colBorrowDate     = "วันที่ยืม"
	colDueDate        = "วันที่ต้องคืน"
	colReturnDate     = "วันที่คืนเงิน"
	colAmountReturned = "เงินที่คืน"
	colRemaining      = "คงเหลือ"
	colFiscalYear     = "ปีงบประมาณ"
	colFundSource     = "รหัสงบประมาณ"
	colContractDate   = "วันที่เซนสัญญา"
	colDuration       = "ระยะเวลาดำเนินโครงการ (เดือน)"
	colContractCode   = "รหัสสัญญา"
	colPaymentType    = "ประเภทการจ่ายเงิน"
	colDisbursedAt    = "วันที่เบิกจ่าย"
	colActivityCode   = "รหัสกิจกรรม"
)

var advanceHeader = []string{
	colEnteredAt, colProjectCode, colARCode, colExpenseCode, colBorrowDate,
	colAmount, colDueDate, colReturnDate, colAmountReturned, colRemaining,
}

var incomeHeader = []string{
	colEnteredAt, colBatchID, colFiscalYear, colProjectCode, colFundType, colFundSource,
	colContractDate, colDuration, colContractCode, colPeriod, colARCode,
	colExpenseCode, colCategory, colItem, colCostType, colAmount,
}

var expenditureHeader = []string{
	colEnteredAt, colBatchID, colProjectCode, colFundType, colPaymentType,
	colDisbursedAt, colActivityCode, colPeriod, colARCode, colExpenseCode,
	colCategory, colItem, colCostType, colAmount,
}

var arCodeHeader = []string{colProjectCode, colARCode, colExpenseCode}
