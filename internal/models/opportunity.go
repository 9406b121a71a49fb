package models

// Opportunity matches the opps_monitoring table the grid client edits.
// Every business column is nullable text: the data originates from Excel
// sheets and free-typed grid cells, and amounts/dates are parsed leniently
// at read time instead of being constrained at write time.
//
// uid is assigned server-side at creation and never updated. rev is the
// caller-declared revision counter driving the revision ledger.
type Opportunity struct {
	UID             string  `gorm:"column:uid;primaryKey" json:"uid"`
	ProjectName     *string `gorm:"column:project_name" json:"project_name"`
	Rev             *string `gorm:"column:rev" json:"rev"`
	Client          *string `gorm:"column:client" json:"client"`
	Solutions       *string `gorm:"column:solutions" json:"solutions"`
	SolParticulars  *string `gorm:"column:sol_particulars" json:"sol_particulars"`
	Industries      *string `gorm:"column:industries" json:"industries"`
	IndParticulars  *string `gorm:"column:ind_particulars" json:"ind_particulars"`
	DateReceived    *string `gorm:"column:date_received" json:"date_received"`
	ClientDeadline  *string `gorm:"column:client_deadline" json:"client_deadline"`
	Decision        *string `gorm:"column:decision" json:"decision"`
	AccountMgr      *string `gorm:"column:account_mgr" json:"account_mgr"`
	Pic             *string `gorm:"column:pic" json:"pic"`
	Bom             *string `gorm:"column:bom" json:"bom"`
	Status          *string `gorm:"column:status" json:"status"`
	SubmittedDate   *string `gorm:"column:submitted_date" json:"submitted_date"`
	Margin          *string `gorm:"column:margin" json:"margin"`
	FinalAmt        *string `gorm:"column:final_amt" json:"final_amt"`
	OppStatus       *string `gorm:"column:opp_status" json:"opp_status"`
	DateAwardedLost *string `gorm:"column:date_awarded_lost" json:"date_awarded_lost"`
	LostRca         *string `gorm:"column:lost_rca" json:"lost_rca"`
	LParticulars    *string `gorm:"column:l_particulars" json:"l_particulars"`
	RemarksComments *string `gorm:"column:remarks_comments" json:"remarks_comments"`
	ForecastDate    *string `gorm:"column:forecast_date" json:"forecast_date"`
	EncodedDate     *string `gorm:"column:encoded_date" json:"encoded_date"`
	ProjectCode     *string `gorm:"column:project_code" json:"project_code"`
	// ACRUD workflow flags from the grid (single-letter columns in the source data).
	A *string `gorm:"column:a" json:"a"`
	C *string `gorm:"column:c" json:"c"`
	R *string `gorm:"column:r" json:"r"`
	U *string `gorm:"column:u" json:"u"`
	D *string `gorm:"column:d" json:"d"`
}

// TableName keeps the original table name.
func (Opportunity) TableName() string {
	return "opps_monitoring"
}
