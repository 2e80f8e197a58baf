package pipedrive

type contactValue struct {
	Value string `json:"value"`
}

type person struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	Email []contactValue `json:"email"`
	Phone []contactValue `json:"phone"`
}

type personsResponse struct {
	Success        bool     `json:"success"`
	Data           []person `json:"data"`
	AdditionalData *struct {
		Pagination *struct {
			NextStart *int `json:"next_start"`
		} `json:"pagination"`
	} `json:"additional_data"`
}
